// Package config holds the static deployment configuration surface:
// database and SMTP settings, the outbound base URLs per platform, the DMS
// service credential and the per-call provisioning timeout. Values come
// from the environment via cleanenv tags; none of them are per-request
// input.
package config
