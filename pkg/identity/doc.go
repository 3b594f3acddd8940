// Package identity validates and sanitizes raw registration input before
// any account is created locally or remotely. It owns field presence and
// email shape checks plus the per-platform identifier sanitizer; duplicate
// detection lives with the account store so the existence check and the
// insert stay one logical step.
package identity
