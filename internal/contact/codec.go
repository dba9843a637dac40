package contact

import (
	"errors"
	"fmt"
	"strings"
)

// Codec errors.
var (
	ErrUnknownKind    = errors.New("unknown detail kind")
	ErrMalformedValue = errors.New("malformed detail value")
)

// Encode returns the storage tag and encoded value for a detail:
//
//	telephone    "{country_code},{city_code},{number}"
//	email        "{address}"
//	social_media "{platform}:{handle}"
func Encode(d Detail) (Kind, string) {
	switch v := d.(type) {
	case Telephone:
		return KindTelephone, v.CountryCode + "," + v.CityCode + "," + v.Number
	case Email:
		return KindEmail, v.Address
	case SocialMedia:
		return KindSocialMedia, v.Platform + ":" + v.Handle
	default:
		// Unreachable: Detail cannot be implemented outside this package.
		panic(fmt.Sprintf("contact: unhandled detail type %T", d))
	}
}

// Validate reports whether every detail of c survives Encode then Decode.
// The separator can only appear in the last encoded field: a ',' in a
// telephone country or city code, or a ':' in a social media platform, would
// be read back into the wrong field.
func Validate(c Contact) error {
	for _, d := range c.Details {
		switch v := d.(type) {
		case Telephone:
			if strings.Contains(v.CountryCode, ",") || strings.Contains(v.CityCode, ",") {
				return fmt.Errorf("%w: telephone country and city codes must not contain ','", ErrMalformedValue)
			}
		case SocialMedia:
			if strings.Contains(v.Platform, ":") {
				return fmt.Errorf("%w: social media platform must not contain ':'", ErrMalformedValue)
			}
		}
	}
	return nil
}

// Decode reconstructs a detail from its storage tag and encoded value.
func Decode(kind Kind, value string) (Detail, error) {
	switch kind {
	case KindTelephone:
		parts := strings.SplitN(value, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: telephone %q needs 3 comma-separated parts", ErrMalformedValue, value)
		}
		return Telephone{CountryCode: parts[0], CityCode: parts[1], Number: parts[2]}, nil
	case KindEmail:
		return Email{Address: value}, nil
	case KindSocialMedia:
		platform, handle, ok := strings.Cut(value, ":")
		if !ok {
			return nil, fmt.Errorf("%w: social media %q needs platform:handle", ErrMalformedValue, value)
		}
		return SocialMedia{Platform: platform, Handle: handle}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
