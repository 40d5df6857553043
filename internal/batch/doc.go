// Package batch generates a certificate for every person on a roster.
//
// Run checks its paths, loads the roster and renders one file per entry in
// roster order, named <template>+<name>+<email>.<ext> inside the output
// directory. Rendering is sequential.
//
// # Existing Files
//
// An output file that already exists is skipped by default. OverwriteForce
// replaces it and OverwriteAsk asks a Prompter, which for the command line
// is a survey confirmation defaulting to no. Two roster rows with the same
// name and email map to the same file, so the second is subject to the same
// policy.
//
// # Failures
//
// The first failing entry stops the batch unless Config.ContinueOnError is
// set. Either way the returned Report describes what was written.
package batch
