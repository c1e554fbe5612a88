package keys_test

import (
	"strings"
	"testing"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/store-cache/keys"
)

func TestEncodeAndParse(t *testing.T) {
	enc, err := keys.NewEncoder("@app")
	require.NoError(t, err)

	sk := enc.Encode("estoque", "baixo_estoque_X")
	assert.Equal(t, "@app:estoque:baixo_estoque_X", sk)
	assert.True(t, strings.HasPrefix(sk, enc.NamespacePrefix("estoque")))
	assert.False(t, strings.HasPrefix(sk, enc.NamespacePrefix("est")))

	ns, key, ok := enc.Parse(sk)
	require.True(t, ok)
	assert.Equal(t, "estoque", ns)
	assert.Equal(t, "baixo_estoque_X", key)
}

func TestParseRejectsForeignKeys(t *testing.T) {
	enc, err := keys.NewEncoder("@app")
	require.NoError(t, err)

	for _, sk := range []string{"", "@other:ns:k", "@app:", "@app:ns", "@app::k", "@app:ns:"} {
		_, _, ok := enc.Parse(sk)
		assert.False(t, ok, sk)
	}
}

func TestRegistryKey(t *testing.T) {
	enc, err := keys.NewEncoder("@app")
	require.NoError(t, err)
	assert.Equal(t, "@app:meta:cached_keys", enc.Registry())
}

func TestNewEncoderRejectsBadPrefix(t *testing.T) {
	for _, p := range []string{"", "a:b"} {
		_, err := keys.NewEncoder(p)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		ns, key string
		ok      bool
	}{
		{"valid", "vendas", "today", true},
		{"empty namespace", "", "k", false},
		{"empty key", "ns", "", false},
		{"reserved", keys.ReservedNamespace, "k", false},
		{"delimiter in namespace", "a:b", "k", false},
		{"delimiter in key", "ns", "a:b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := keys.Validate(tt.ns, tt.key)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}
}
