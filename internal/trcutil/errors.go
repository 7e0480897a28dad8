package trcutil

import "strings"

// JoinErrors renders errs as a single line, separated by semicolons. It
// returns the empty string for no errors.
func JoinErrors(errs ...error) string {
	strs := make([]string, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		strs = append(strs, err.Error())
	}
	return strings.Join(strs, "; ")
}
