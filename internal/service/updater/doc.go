// Package updater pins a version tag in the cookiecutter configuration record.
//
// Update reads the record, compares the stored tag with the fetched one and
// rewrites the file only when they differ. A missing or malformed file is
// reported through the returned error and never written.
package updater
