// Package keys builds storage keys of the form "{prefix}:{namespace}:{key}".
package keys

import (
	"strings"

	"github.com/jmgilman/go/errors"
)

const (
	// Delimiter joins prefix, namespace and local key. It must not appear inside
	// a namespace or a local key.
	Delimiter = ":"

	// ReservedNamespace holds the cache's own bookkeeping records.
	ReservedNamespace = "meta"

	// RegistryKey is the local key of the registry record inside ReservedNamespace.
	RegistryKey = "cached_keys"
)

// Encoder turns (namespace, key) pairs into storage keys under one app prefix.
type Encoder struct {
	prefix string
}

// NewEncoder returns an Encoder for prefix. The prefix must be non-empty and must
// not contain Delimiter.
func NewEncoder(prefix string) (Encoder, error) {
	if prefix == "" || strings.Contains(prefix, Delimiter) {
		return Encoder{}, errors.Newf(errors.CodeInvalidConfig, "invalid app prefix %q", prefix)
	}
	return Encoder{prefix: prefix}, nil
}

// Prefix returns the application prefix shared by every key this Encoder builds.
func (e Encoder) Prefix() string { return e.prefix }

// Encode joins namespace and key. It does not validate; see Validate.
func (e Encoder) Encode(namespace, key string) string {
	return e.prefix + Delimiter + namespace + Delimiter + key
}

// NamespacePrefix is the string prefix shared by every key in namespace.
func (e Encoder) NamespacePrefix(namespace string) string {
	return e.prefix + Delimiter + namespace + Delimiter
}

// AppPrefix is the string prefix shared by every key this Encoder builds.
func (e Encoder) AppPrefix() string {
	return e.prefix + Delimiter
}

// Registry returns the storage key of the registry record.
func (e Encoder) Registry() string {
	return e.Encode(ReservedNamespace, RegistryKey)
}

/*
Parse splits a storage key back into namespace and local key.
ok is false when storageKey was not built by this Encoder.
*/
func (e Encoder) Parse(storageKey string) (namespace, key string, ok bool) {
	rest, found := strings.CutPrefix(storageKey, e.AppPrefix())
	if !found {
		return "", "", false
	}
	namespace, key, found = strings.Cut(rest, Delimiter)
	if !found || namespace == "" || key == "" {
		return "", "", false
	}
	return namespace, key, true
}

// Validate rejects pairs that would produce ambiguous or reserved storage keys.
func Validate(namespace, key string) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	switch {
	case key == "":
		return errors.New(errors.CodeInvalidInput, "key is required")
	case strings.Contains(key, Delimiter):
		return errors.Newf(errors.CodeInvalidInput, "key %q contains delimiter %q", key, Delimiter)
	}
	return nil
}

// ValidateNamespace rejects empty, reserved or delimiter-bearing namespaces.
func ValidateNamespace(namespace string) error {
	switch {
	case namespace == "":
		return errors.New(errors.CodeInvalidInput, "namespace is required")
	case namespace == ReservedNamespace:
		return errors.Newf(errors.CodeInvalidInput, "namespace %q is reserved", ReservedNamespace)
	case strings.Contains(namespace, Delimiter):
		return errors.Newf(errors.CodeInvalidInput, "namespace %q contains delimiter %q", namespace, Delimiter)
	}
	return nil
}
