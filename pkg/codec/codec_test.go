package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testValue is a struct for round-trip codec testing.
type testValue struct {
	Name   string         `json:"name"   yaml:"name"`
	Count  int            `json:"count"  yaml:"count"`
	Values map[string]int `json:"values" yaml:"values"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	original := testValue{
		Name:   "test",
		Count:  42,
		Values: map[string]int{"a": 1, "b": 2},
	}

	for _, c := range []Codec[testValue]{JSON[testValue]{}, Gob[testValue]{}, YAML[testValue]{}} {
		t.Run(c.Name(), func(t *testing.T) {
			t.Parallel()

			data, err := c.Marshal(original)
			require.NoError(t, err)

			decoded, err := c.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestJSON_Compact(t *testing.T) {
	t.Parallel()

	data, err := JSON[[]int]{}.Marshal([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(data))
}

func TestCodecs_DecodeError(t *testing.T) {
	t.Parallel()

	_, err := JSON[int]{}.Unmarshal([]byte("{"))
	require.ErrorContains(t, err, "json decode")

	_, err = Gob[int]{}.Unmarshal([]byte("garbage"))
	require.ErrorContains(t, err, "gob decode")

	_, err = YAML[int]{}.Unmarshal([]byte("[unterminated"))
	require.ErrorContains(t, err, "yaml decode")
}

func TestString_RoundTrip(t *testing.T) {
	t.Parallel()

	data, err := String{}.Marshal("héllo")
	require.NoError(t, err)
	assert.Equal(t, []byte("héllo"), data)

	value, err := String{}.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "héllo", value)
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		c, err := ByName[string](name)
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}

	_, err := ByName[int](NameString)
	require.ErrorIs(t, err, ErrUnknownCodec)

	_, err = ByName[int]("xml")
	require.ErrorIs(t, err, ErrUnknownCodec)
	assert.Contains(t, err.Error(), `"xml"`)
}
