package hl7

import "errors"

var (
	// ErrReadInput is returned when the HL7 input file cannot be read.
	ErrReadInput = errors.New("cannot read input file")

	// ErrWriteReport is returned when the extraction report cannot be written.
	ErrWriteReport = errors.New("cannot write extraction report")

	// ErrMalformedReport is returned when a report being re-parsed does not
	// follow the expected block format.
	ErrMalformedReport = errors.New("malformed extraction report")
)
