package types

// Version is the canonical project version.
// The library, CLI and viewer protocol share this version per the lockstep
// versioning policy: any change to the artifacts in this package bumps it.
//
// While the major version is 0, every minor bump is a breaking protocol
// change and both sides must match on major.minor.
const Version = "0.3.0"

// ProtocolVersion is the version the library reports and negotiates
// against the viewer's reported version. Lockstep with Version.
const ProtocolVersion = Version
