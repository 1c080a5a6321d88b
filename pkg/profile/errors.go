package profile

import "errors"

// Sentinel errors for the profile package, which callers can check with
// errors.Is, mirroring the teacher's single-sentinel convention
// (jtag.ErrNotImplemented). cmd/repal/cmd does not branch on them: every
// error there takes the same exit path.
var (
	// ErrProfileNotFound is returned when a named profile does not exist
	// in the loaded config, or when size-based auto-detection matches no
	// profile.
	ErrProfileNotFound = errors.New("profile: not found")

	// ErrProfileParse is returned for any malformed profiles.config: bad
	// grammar, missing required fields, or inconsistent pin tables.
	ErrProfileParse = errors.New("profile: parse error")
)
