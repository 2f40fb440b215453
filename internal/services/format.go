package services

import (
	"net/mail"
	"strings"
	"unicode"
)

// FormatCPF masks a document number as the user types: 000.000.000-00.
// Extra digits beyond 11 are dropped.
func FormatCPF(v string) string {
	d := DigitsOnly(v)
	if len(d) > 11 {
		d = d[:11]
	}
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// FormatPhone masks a Brazilian phone as the user types: (11) 99999-9999.
// Accepts 10-digit landlines and 11-digit mobiles; extra digits are dropped.
func FormatPhone(v string) string {
	d := DigitsOnly(v)
	if len(d) > 11 {
		d = d[:11]
	}
	if len(d) <= 2 {
		return d
	}
	rest := d[2:]
	if len(rest) > 4 {
		rest = rest[:len(rest)-4] + "-" + rest[len(rest)-4:]
	}
	return "(" + d[:2] + ") " + rest
}

// FormatDate masks a date as the user types: DD/MM/YYYY.
func FormatDate(v string) string {
	d := DigitsOnly(v)
	if len(d) > 8 {
		d = d[:8]
	}
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		if i == 2 || i == 4 {
			b.WriteByte('/')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormPhone produces a permissive E.164-like number for outbound delivery:
// - strips spaces, hyphens, parentheses
// - "00" prefix -> "+" (international)
// - "+<digits>" kept as-is
// - bare 10/11 digits -> assume Brazil local -> "+55" + digits
// - other bare digits: treat as already including CC, add '+'
func NormPhone(p string) string {
	p = strings.TrimSpace(p)
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	p = replacer.Replace(p)
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "00") {
		return "+" + p[2:]
	}
	if strings.HasPrefix(p, "+") {
		return "+" + strings.TrimPrefix(p, "+")
	}
	if len(p) == 10 || len(p) == 11 {
		return "+55" + p
	}
	return "+" + p
}

// NormEmail lowercases and validates an email. Empty is allowed (optional
// fields); the step validators decide whether presence is required.
func NormEmail(s string) (string, bool) {
	e := strings.TrimSpace(strings.ToLower(s))
	if e == "" {
		return "", true
	}
	_, err := mail.ParseAddress(e)
	return e, err == nil
}
