package contact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInput is returned when user input does not split into the
// expected number of parts.
var ErrMalformedInput = errors.New("malformed input")

// ParseTelephone splits "cc-city-number" into a Telephone.
// The number part may itself contain '-' or ','; the codes may not contain ','.
func ParseTelephone(s string) (Telephone, error) {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return Telephone{}, fmt.Errorf("%w: telephone must be <country_code>-<city_code>-<number>, got %q", ErrMalformedInput, s)
	}
	if strings.Contains(parts[0], ",") || strings.Contains(parts[1], ",") {
		return Telephone{}, fmt.Errorf("%w: telephone country and city codes must not contain ',', got %q", ErrMalformedInput, s)
	}
	return Telephone{CountryCode: parts[0], CityCode: parts[1], Number: parts[2]}, nil
}

// ParseSocialMedia splits "platform:handle" on the first ':'.
func ParseSocialMedia(s string) (SocialMedia, error) {
	platform, handle, ok := strings.Cut(s, ":")
	if !ok {
		return SocialMedia{}, fmt.Errorf("%w: social media must be <platform>:<handle>, got %q", ErrMalformedInput, s)
	}
	return SocialMedia{Platform: platform, Handle: handle}, nil
}

// DetailsFromInput builds the detail list for the optional telephone, email
// and social-media inputs, in that order. Empty inputs are skipped.
func DetailsFromInput(telephone, email, socialMedia string) ([]Detail, error) {
	var details []Detail
	if telephone != "" {
		t, err := ParseTelephone(telephone)
		if err != nil {
			return nil, err
		}
		details = append(details, t)
	}
	if email != "" {
		details = append(details, Email{Address: email})
	}
	if socialMedia != "" {
		s, err := ParseSocialMedia(socialMedia)
		if err != nil {
			return nil, err
		}
		details = append(details, s)
	}
	return details, nil
}
