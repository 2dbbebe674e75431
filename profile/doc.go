// Package profile writes runtime profiles for long scans.
//
// Profiles are selected by name with --profile and written to
// <profile-dir>/<name>.pprof when the command finishes:
//
//	putflow scan ./big-repo --profile cpu,heap --profile-dir /tmp
package profile
