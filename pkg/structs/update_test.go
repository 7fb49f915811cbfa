package structs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressInt(t *testing.T) {
	cases := []struct {
		Name   string
		Given  string
		Expect int
		Valid  bool
	}{
		{"Zero", "0", 0, true},
		{"Hundred", "100", 100, true},
		{"Middle", "42", 42, true},
		{"Negative", "-1", -1, false},
		{"TooBig", "101", 101, false},
		{"Garbage", "garbage", 0, false},
		{"Fraction", "50.5", 0, false},
		{"Empty", "", 0, false},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			i, ok := Progress(c.Given).Int()

			assert.Equal(t, c.Valid, ok)
			assert.Equal(t, c.Expect, i)
		})
	}
}

func TestUpdateUnmarshal(t *testing.T) {
	cases := []struct {
		Name     string
		Given    string
		Progress string
	}{
		{"NumberProgress", `{"progress": 20}`, "20"},
		{"StringProgress", `{"progress": "20"}`, "20"},
		{"GarbageProgress", `{"progress": "garbage"}`, "garbage"},
		{"NegativeProgress", `{"progress": -1}`, "-1"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			u := &Update{}
			err := json.Unmarshal([]byte(c.Given), u)

			assert.Nil(t, err)
			assert.NotNil(t, u.Progress)
			assert.Equal(t, c.Progress, string(*u.Progress))
		})
	}
}

func TestUpdateMarshalProgress(t *testing.T) {
	data, err := json.Marshal(&Update{Progress: NewProgress(30)})
	assert.Nil(t, err)
	assert.JSONEq(t, `{"progress": 30}`, string(data))

	p := Progress("nope")
	data, err = json.Marshal(&Update{Progress: &p})
	assert.Nil(t, err)
	assert.JSONEq(t, `{"progress": "nope"}`, string(data))
}

func TestUpdateIsTerminal(t *testing.T) {
	assert.True(t, (&Update{Status: SUCCESSFUL}).IsTerminal())
	assert.True(t, (&Update{Status: FAILED, Error: "x"}).IsTerminal())
	assert.False(t, (&Update{Progress: NewProgress(1)}).IsTerminal())
	assert.True(t, (&Update{}).IsEmpty())
}
