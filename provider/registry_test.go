package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CaseInsensitive(t *testing.T) {
	Register(" Test-Register ", func(Config) (Client, error) {
		return NewMockClient("ok", 1), nil
	})
	defer Unregister("test-register")

	assert.True(t, IsRegistered("TEST-REGISTER"))

	c, err := New("Test-Register", Config{})
	require.NoError(t, err)
	assert.Equal(t, "mock", c.Provider())
}

func TestRegister_Panics(t *testing.T) {
	Register("test-dup", func(Config) (Client, error) { return nil, nil })
	defer Unregister("test-dup")

	tests := map[string]func(){
		"duplicate":   func() { Register("TEST-DUP", func(Config) (Client, error) { return nil, nil }) },
		"empty name":  func() { Register("  ", func(Config) (Client, error) { return nil, nil }) },
		"nil factory": func() { Register("test-nil", nil) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, fn)
		})
	}
}

func TestNew_PassesNormalizedName(t *testing.T) {
	var got Config
	Register("test-new", func(cfg Config) (Client, error) {
		got = cfg
		return NewMockClient("", 0), nil
	})
	defer Unregister("test-new")

	_, err := New("TEST-NEW", Config{Provider: "TEST-NEW", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "test-new", got.Provider)
	assert.Equal(t, "m", got.Model)
}

func TestNew_UnknownListsAvailable(t *testing.T) {
	Register("test-known", func(Config) (Client, error) { return nil, nil })
	defer Unregister("test-known")

	_, err := New("does-not-exist", Config{})
	require.ErrorIs(t, err, ErrUnknownProvider)
	assert.Contains(t, err.Error(), `"does-not-exist"`)
	assert.Contains(t, err.Error(), "test-known")
}

func TestFromConfig_Validates(t *testing.T) {
	_, err := FromConfig(Config{})
	require.Error(t, err)

	_, err = FromConfig(Config{Provider: "openai", Timeout: -1})
	require.Error(t, err)
}

func TestAvailable_Sorted(t *testing.T) {
	Register("zz-test", func(Config) (Client, error) { return nil, nil })
	Register("aa-test", func(Config) (Client, error) { return nil, nil })
	defer Unregister("zz-test")
	defer Unregister("aa-test")

	names := Available()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "aa-test")
	assert.Contains(t, names, "zz-test")
}
