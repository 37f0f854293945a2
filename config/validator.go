package config

// Validator is implemented by configuration sections that can check themselves
type Validator interface {
	Validate() error
}

// ValidateAll stops at the first failing section
func ValidateAll(validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
