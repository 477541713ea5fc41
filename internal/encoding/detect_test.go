package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/procurement/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte("Title,Department\nPala (shovel),Engineering\nGasolina ₱50,Operations\n"),
			want:        "Title,Department\nPala (shovel),Engineering\nGasolina ₱50,Operations\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("ID,PR_No\n")...),
			want:        "ID,PR_No\n",
			wantCharset: encoding.UTF8,
		},
		{
			// "Piñata,Café\n" in windows-1252: ñ = 0xF1, é = 0xE9
			name:  "Windows1252",
			input: []byte{'P', 'i', 0xF1, 'a', 't', 'a', ',', 'C', 'a', 'f', 0xE9, '\n'},
			want:  "Piñata,Café\n",
		},
		{
			name:        "UTF16LE",
			input:       []byte{0xFF, 0xFE, 'I', 0x00, 'D', 0x00, '\n', 0x00},
			want:        "ID\n",
			wantCharset: encoding.UTF16LE,
		},
		{
			name:        "UTF16BE",
			input:       []byte{0xFE, 0xFF, 0x00, 'I', 0x00, 'D', 0x00, '\n'},
			want:        "ID\n",
			wantCharset: encoding.UTF16BE,
		},
		{
			name:        "Empty",
			input:       []byte{},
			want:        "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewUTF8Reader_LargerThanSample(t *testing.T) {
	row := "2025-PR-001,Sandbags,Operations\n"
	input := bytes.Repeat([]byte(row), 1000)

	r, _, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(input), string(got))
}
