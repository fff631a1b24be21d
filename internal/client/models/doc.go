// Package models defines the wire and storage types of the ESPM client:
// identity-server grants and responses, token claims, and the public
// tender (concurso) records served by the selection API.
package models
