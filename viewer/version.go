package viewer

import (
	"fmt"
	"strconv"
	"strings"
)

// parseVersion parses a strict major.minor.patch version string. A
// malformed string is an ErrInvalidResponse, not a version mismatch: it
// signals protocol corruption rather than a skew the user can fix by
// upgrading.
func parseVersion(v string) (major, minor, patch int, err error) {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return 0, 0, 0, newError(ErrInvalidResponse, "parse-version", "",
			fmt.Sprintf("invalid version format %q, want major.minor.patch", v), nil)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, convErr := strconv.Atoi(part)
		if convErr != nil || n < 0 {
			return 0, 0, 0, newError(ErrInvalidResponse, "parse-version", "",
				fmt.Sprintf("invalid version segment %q in %q", part, v), nil)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// checkVersionCompatibility decides whether a viewer reporting
// viewerVersion can serve a library speaking libraryVersion.
//
// Rules, in order:
//  1. A reported 0.0.x is a legacy viewer that predates version reporting
//     entirely; always rejected.
//  2. Differing major versions are incompatible.
//  3. While the library major is 0, minor versions must match exactly.
//  4. Otherwise compatible.
func checkVersionCompatibility(libraryVersion, viewerVersion string) error {
	libMajor, libMinor, _, err := parseVersion(libraryVersion)
	if err != nil {
		return err
	}
	viewerMajor, viewerMinor, _, err := parseVersion(viewerVersion)
	if err != nil {
		return err
	}

	if viewerMajor == 0 && viewerMinor == 0 {
		return &VersionMismatchError{
			Library: libraryVersion,
			Viewer:  viewerVersion,
			Suggestion: "Your htmlview-app binary is outdated and does not report its version. " +
				"Please upgrade it to a release matching this library.",
		}
	}

	if libMajor != viewerMajor {
		var suggestion string
		if libMajor > viewerMajor {
			suggestion = fmt.Sprintf("Your htmlview-app binary is too old. Upgrade it to version %d.%d.x.", libMajor, libMinor)
		} else {
			suggestion = fmt.Sprintf("Your htmlview-app binary is too new. Either downgrade it or upgrade this library to %d.%d.x.", viewerMajor, viewerMinor)
		}
		return &VersionMismatchError{Library: libraryVersion, Viewer: viewerVersion, Suggestion: suggestion}
	}

	if libMajor == 0 && libMinor != viewerMinor {
		var suggestion string
		if libMinor > viewerMinor {
			suggestion = fmt.Sprintf("Your htmlview-app binary is too old for this pre-1.0 library. Upgrade it to version 0.%d.x.", libMinor)
		} else {
			suggestion = fmt.Sprintf("Your htmlview-app binary is too new for this pre-1.0 library. Either downgrade it or upgrade this library to 0.%d.x.", viewerMinor)
		}
		return &VersionMismatchError{Library: libraryVersion, Viewer: viewerVersion, Suggestion: suggestion}
	}

	return nil
}
