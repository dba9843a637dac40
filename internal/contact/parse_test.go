package contact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTelephone(t *testing.T) {
	got, err := ParseTelephone("1-555-1234")
	require.NoError(t, err)
	assert.Equal(t, Telephone{CountryCode: "1", CityCode: "555", Number: "1234"}, got)

	got, err = ParseTelephone("49-30-123-456")
	require.NoError(t, err)
	assert.Equal(t, "123-456", got.Number)

	got, err = ParseTelephone("1-555-12,34")
	require.NoError(t, err)
	assert.Equal(t, "12,34", got.Number)

	for _, bad := range []string{"15551234", "1-5551234", "", "1,2-555-1234", "1-5,55-1234"} {
		_, err := ParseTelephone(bad)
		assert.True(t, errors.Is(err, ErrMalformedInput), "input %q", bad)
	}
}

func TestParseSocialMedia(t *testing.T) {
	got, err := ParseSocialMedia("twitter:@ana")
	require.NoError(t, err)
	assert.Equal(t, SocialMedia{Platform: "twitter", Handle: "@ana"}, got)

	got, err = ParseSocialMedia("matrix:@ana:matrix.org")
	require.NoError(t, err)
	assert.Equal(t, "@ana:matrix.org", got.Handle)

	_, err = ParseSocialMedia("twitter")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestDetailsFromInput(t *testing.T) {
	details, err := DetailsFromInput("1-555-1234", "ana@x.com", "gh:ana")
	require.NoError(t, err)
	assert.Equal(t, []Detail{
		Telephone{CountryCode: "1", CityCode: "555", Number: "1234"},
		Email{Address: "ana@x.com"},
		SocialMedia{Platform: "gh", Handle: "ana"},
	}, details)

	details, err = DetailsFromInput("", "", "")
	require.NoError(t, err)
	assert.Empty(t, details)

	_, err = DetailsFromInput("bad", "", "")
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = DetailsFromInput("", "", "bad")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestExportRecord_RoundTrip(t *testing.T) {
	c := Contact{Name: "Ana", Details: []Detail{
		Telephone{CountryCode: "1", CityCode: "555", Number: "1234"},
		SocialMedia{Platform: "gh", Handle: "ana"},
	}}

	r := ToExportRecord(c)
	assert.Equal(t, "Ana", r.Name)
	assert.Equal(t, []ExportDetail{{Type: KindTelephone, Value: "1,555,1234"}, {Type: KindSocialMedia, Value: "gh:ana"}}, r.Details)

	back, err := r.ToContact()
	require.NoError(t, err)
	assert.True(t, back.Equal(c))

	r.Details = append(r.Details, ExportDetail{Type: "pager", Value: "1"})
	_, err = r.ToContact()
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestToView(t *testing.T) {
	v := ToView(Contact{
		Name: "Ana",
		Details: []Detail{
			Telephone{CountryCode: "1", CityCode: "555", Number: "1234"},
			SocialMedia{Platform: "tw", Handle: "ana_t"},
		},
	})

	require.Len(t, v.Details, 2)
	assert.Equal(t, DetailView{Type: KindTelephone, Value: "1,555,1234", Display: "Phone: 15551234"}, v.Details[0])
	assert.Equal(t, DetailView{Type: KindSocialMedia, Value: "tw:ana_t", Display: "tw: ana_t"}, v.Details[1])

	empty := ToView(Contact{Name: "Bob"})
	assert.NotNil(t, empty.Details)
	assert.Empty(t, empty.Details)
	assert.NotNil(t, ToViews(nil))
}
