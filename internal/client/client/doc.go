// Package client contains the HTTP building blocks of the ESPM CLI.
//
// # Overview
//
// The package provides:
//  1. IdentityProvider and its HTTP implementation (HTTPIdentityClient),
//     which performs the OAuth2 password and refresh_token grants against
//     the Acesso Cidadão identity server and fetches the user's claims.
//  2. AuthTransport, an http.RoundTripper that attaches a bearer token from
//     a TokenSource to every request not marked with the anonymous header.
//  3. SelecaoClient, the public tender (concursos) API and the favorites
//     endpoint of the ESPM API.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations): a SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx answers are returned as
// *OAuth2Error, which unwraps to ErrUnauthorized or ErrUnavailable
// depending on the status code. Nothing is retried automatically.
package client
