package taxrule

import (
	"regexp"
	"strconv"
	"strings"
)

// vatNumberFormats holds the intra-community VAT number format per member
// state, country prefix included. Greece uses the "EL" prefix.
var vatNumberFormats = map[string]*regexp.Regexp{
	"AT": regexp.MustCompile(`^ATU\d{8}$`),
	"BE": regexp.MustCompile(`^BE[01]\d{9}$`),
	"BG": regexp.MustCompile(`^BG\d{9,10}$`),
	"CY": regexp.MustCompile(`^CY\d{8}[A-Z]$`),
	"CZ": regexp.MustCompile(`^CZ\d{8,10}$`),
	"DE": regexp.MustCompile(`^DE\d{9}$`),
	"DK": regexp.MustCompile(`^DK\d{8}$`),
	"EE": regexp.MustCompile(`^EE\d{9}$`),
	"ES": regexp.MustCompile(`^ES[A-Z0-9]\d{7}[A-Z0-9]$`),
	"FI": regexp.MustCompile(`^FI\d{8}$`),
	"FR": regexp.MustCompile(`^FR[A-HJ-NP-Z0-9]{2}\d{9}$`),
	"GR": regexp.MustCompile(`^EL\d{9}$`),
	"HR": regexp.MustCompile(`^HR\d{11}$`),
	"HU": regexp.MustCompile(`^HU\d{8}$`),
	"IE": regexp.MustCompile(`^IE\d[A-Z0-9+*]\d{5}[A-W][A-I]?$`),
	"IT": regexp.MustCompile(`^IT\d{11}$`),
	"LT": regexp.MustCompile(`^LT(\d{9}|\d{12})$`),
	"LU": regexp.MustCompile(`^LU\d{8}$`),
	"LV": regexp.MustCompile(`^LV\d{11}$`),
	"MT": regexp.MustCompile(`^MT\d{8}$`),
	"NL": regexp.MustCompile(`^NL\d{9}B\d{2}$`),
	"PL": regexp.MustCompile(`^PL\d{10}$`),
	"PT": regexp.MustCompile(`^PT\d{9}$`),
	"RO": regexp.MustCompile(`^RO\d{2,10}$`),
	"SE": regexp.MustCompile(`^SE\d{12}$`),
	"SI": regexp.MustCompile(`^SI\d{8}$`),
	"SK": regexp.MustCompile(`^SK\d{10}$`),
}

// NormalizeTaxID uppercases a VAT number and strips spaces, dots and dashes.
func NormalizeTaxID(taxID string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '\t':
			return -1
		}
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, taxID)
}

// ValidTaxID reports whether taxID is a well-formed VAT number issued by
// country. Anything it cannot positively verify is invalid.
func ValidTaxID(country, taxID string) bool {
	country = strings.ToUpper(strings.TrimSpace(country))
	re, ok := vatNumberFormats[country]
	if !ok {
		return false
	}
	n := NormalizeTaxID(taxID)
	if !re.MatchString(n) {
		return false
	}
	if country == "FR" {
		return validFrenchKey(n)
	}
	return true
}

// frenchKeyAlphabet orders the characters of an alphanumeric French key.
const frenchKeyAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// validFrenchKey checks FRkkSSSSSSSSS. A numeric key must equal
// (12 + 3 × (SIREN mod 97)) mod 97. An alphanumeric key encodes a check
// value c, and (SIREN + 1 + c/11) mod 11 must equal c mod 11.
func validFrenchKey(n string) bool {
	siren, err := strconv.Atoi(n[4:])
	if err != nil {
		return false
	}
	if key, err := strconv.Atoi(n[2:4]); err == nil {
		return key == (12+3*(siren%97))%97
	}
	first := strings.IndexByte(frenchKeyAlphabet, n[2])
	second := strings.IndexByte(frenchKeyAlphabet, n[3])
	if first < 0 || second < 0 {
		return false
	}
	var check int
	if first < 10 {
		check = first*24 + second - 10
	} else {
		check = first*34 + second - 100
	}
	return (siren+1+check/11)%11 == check%11
}
