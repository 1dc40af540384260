package services

import "path"

// ValidateRule rejects membership rules that are not valid glob patterns.
func ValidateRule(rule string) error {
	if _, err := path.Match(rule, ""); err != nil {
		return ErrBadRequest
	}
	return nil
}
