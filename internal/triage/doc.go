// Package triage manages the emergency department's pending cases. It keeps
// cases ordered by clinical urgency (priority 1 is the most urgent), hands out
// the most urgent case first, and stays in sync with the on-disk case log and
// the admissions intake feed through the caselog subpackage.
package triage
