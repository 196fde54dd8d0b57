// Package sanitizer normalizes user-supplied contact data before it is sent
// to the booking API: whitespace cleanup for names and notes, lowercasing for
// email addresses and E.164 normalization for phone numbers.
package sanitizer
