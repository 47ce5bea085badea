package binding

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DomainBinding is the domain prefix for content-addressed binding
// identity. The version suffix enables future algorithm migration.
const DomainBinding = "provc/binding/v1"

// descriptorID computes the content-addressed identity of a binding.
//
// Format: SHA256(domain + 0x00 + canonical)
// The null byte separator prevents domain/data boundary ambiguity.
// All strings are NFC normalized so visually equal declarations hash
// equally, and each field is length-prefixed so field boundaries
// cannot be confused.
func descriptorID(b *Binding) (string, error) {
	var sb strings.Builder
	fields := []string{b.Module, b.Method, b.ProvidedType}
	for _, d := range b.Dependencies {
		fields = append(fields, d.Name, d.Type)
	}
	for _, f := range fields {
		if f == "" {
			return "", fmt.Errorf("descriptor field must be non-empty")
		}
		nfc := norm.NFC.String(f)
		fmt.Fprintf(&sb, "%d:%s", len(nfc), nfc)
	}

	h := sha256.New()
	h.Write([]byte(DomainBinding))
	h.Write([]byte{0x00})
	h.Write([]byte(sb.String()))
	return hex.EncodeToString(h.Sum(nil)), nil
}
