package structs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkUnmarshalStringForms(t *testing.T) {
	in := []byte(`{"href":"https://example.com","type":"image/gif","bbox":"-10,-10,10,10","temporal":"2020-01-01T00:00:00.000Z,2020-01-02T00:00:00.000Z"}`)

	l := &Link{}
	err := json.Unmarshal(in, l)

	assert.Nil(t, err)
	assert.Equal(t, BBox{-10, -10, 10, 10}, l.BBox)
	assert.Equal(t, &Temporal{Start: "2020-01-01T00:00:00.000Z", End: "2020-01-02T00:00:00.000Z"}, l.Temporal)
}

func TestLinkUnmarshalStructuredForms(t *testing.T) {
	in := []byte(`{"href":"http://example.com","rel":"data","bbox":[-100,-30,-80,20],"temporal":{"start":"1996-10-15T00:05:32.000Z","end":"1996-11-15T00:05:32.000Z"}}`)

	l := &Link{}
	err := json.Unmarshal(in, l)

	assert.Nil(t, err)
	assert.Equal(t, RelData, l.Rel)
	assert.Equal(t, BBox{-100, -30, -80, 20}, l.BBox)
	assert.Equal(t, "1996-10-15T00:05:32.000Z", l.Temporal.Start)
	assert.Equal(t, "1996-11-15T00:05:32.000Z", l.Temporal.End)
}

func TestLinkUnmarshalBad(t *testing.T) {
	cases := []struct {
		Name  string
		Given string
	}{
		{"BBoxNotNumber", `{"href":"x","bbox":"a,b,c,d"}`},
		{"BBoxWrongType", `{"href":"x","bbox":{"w":1}}`},
		{"TemporalOnePart", `{"href":"x","temporal":"2020-01-01T00:00:00Z"}`},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			err := json.Unmarshal([]byte(c.Given), &Link{})
			assert.NotNil(t, err)
		})
	}
}

func TestLinkCopy(t *testing.T) {
	l := &Link{Href: "x", BBox: BBox{1, 2, 3, 4}, Temporal: &Temporal{Start: "a", End: "b"}}

	cp := l.Copy()
	cp.BBox[0] = 100
	cp.Temporal.Start = "z"

	assert.Equal(t, 1.0, l.BBox[0])
	assert.Equal(t, "a", l.Temporal.Start)
}

func TestRelationIsSingular(t *testing.T) {
	assert.True(t, RelSelf.IsSingular())
	assert.True(t, RelS3Access.IsSingular())
	assert.False(t, RelData.IsSingular())
	assert.False(t, RelCloudAccessJSON.IsSingular())
}
