package winreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gersonkurz/regkit/pkg/types"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		hive     string
		rest     string
	}{
		{"long name", `HKEY_LOCAL_MACHINE\SOFTWARE\Vendor`, "HKEY_LOCAL_MACHINE", `SOFTWARE\Vendor`},
		{"alias", `HKLM\SOFTWARE`, "HKEY_LOCAL_MACHINE", "SOFTWARE"},
		{"alias lowercase", `hkcu\Software`, "HKEY_CURRENT_USER", "Software"},
		{"mixed case long name", `Hkey_Users\S-1-5-18`, "HKEY_USERS", "S-1-5-18"},
		{"hive root only", "HKCR", "HKEY_CLASSES_ROOT", ""},
		{"trailing backslashes", `HKCC\Sub\\`, "HKEY_CURRENT_CONFIG", "Sub"},
		{"no alias hive", `HKEY_PERFORMANCE_DATA\x`, "HKEY_PERFORMANCE_DATA", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, rest, err := ResolvePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.hive, h.Name)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestResolvePathUnknownHive(t *testing.T) {
	_, _, err := ResolvePath(`HKEY_NOPE\Sub`)
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrKindNotFound))
}

func TestCanonicalPath(t *testing.T) {
	got, err := CanonicalPath(`hklm\Software\App`)
	require.NoError(t, err)
	assert.Equal(t, `HKEY_LOCAL_MACHINE\Software\App`, got)

	got, err = CanonicalPath("hku")
	require.NoError(t, err)
	assert.Equal(t, "HKEY_USERS", got)

	_, err = CanonicalPath(`BOGUS\x`)
	assert.Error(t, err)
}
