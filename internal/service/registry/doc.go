// Package registry scrapes a container registry listing page for the newest
// version tag.
//
// The page is treated as unstructured text: one GET, one regex scan, and the
// numerically highest tag wins.
package registry
