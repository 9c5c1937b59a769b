package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "studycat/pkg/domain-errors"
)

// TestParseStudyID_Invariants validates that IDs must be valid, non-empty,
// non-nil UUIDs.
func TestParseStudyID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseStudyID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseStudyID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseStudyID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseStudyID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, StudyID(validUUID), id)
		assert.Equal(t, validUUID.String(), id.String())
	})
}

func TestParseStudyID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE studies;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStudyID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	valid := uuid.New().String()
	_, errStudy := ParseStudyID(valid)
	_, errCurator := ParseCuratorID(valid)
	_, errEvent := ParseEventID(valid)
	require.NoError(t, errStudy)
	require.NoError(t, errCurator)
	require.NoError(t, errEvent)

	for _, input := range []string{"", "invalid", uuid.Nil.String()} {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errStudy := ParseStudyID(input)
			_, errCurator := ParseCuratorID(input)
			_, errEvent := ParseEventID(input)
			require.Error(t, errStudy)
			require.Error(t, errCurator)
			require.Error(t, errEvent)
		})
	}
}

func TestParseAccession(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Accession
		wantErr bool
	}{
		{"UBA style", "U_73212", "U_73212", false},
		{"assembly accession", "GCA_000010565.1", "GCA_000010565.1", false},
		{"trims surrounding space", "  GB_GCA_1.1\r", "GB_GCA_1.1", false},
		{"empty", "", "", true},
		{"inner space", "U 1", "", true},
		{"inner tab", "U\t1", "", true},
		{"comma separated list", "U_1,U_2", "", true},
		{"too long", strings.Repeat("a", MaxAccessionLength+1), "", true},
		{"invalid utf8", "U_\xff", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAccession(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFieldType(t *testing.T) {
	for _, in := range []string{"TEXT", "boolean", " Integer ", "float"} {
		ft, err := ParseFieldType(in)
		require.NoError(t, err, in)
		assert.True(t, ft.IsValid())
	}

	_, err := ParseFieldType("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = ParseFieldType("DATE")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestStudyIDJSON(t *testing.T) {
	sid := NewStudyID()
	b, err := json.Marshal(struct {
		ID      StudyID   `json:"id"`
		Curator CuratorID `json:"curator"`
	}{ID: sid})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"id":"`+sid.String()+`"`)
	assert.Contains(t, string(b), `"curator":"00000000-0000-0000-0000-000000000000"`)

	var back struct {
		ID StudyID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, sid, back.ID)
}
