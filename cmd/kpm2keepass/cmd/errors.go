package cmd

// MissingInputError is returned when no input file was given.
// It is reported as a plain message and is not a failure.
type MissingInputError struct{}

func (e *MissingInputError) Error() string {
	return "Input file must be provided. Use --help for more info."
}
