// Package juxta extracts position-addressed annotations and witness text
// from TEI-style sources and runs import and collation jobs in the
// background.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, etree/, xml/).
package juxta
