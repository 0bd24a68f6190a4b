// Regctl reads, converts, diffs, and applies Windows-registry data in the
// textual .reg exchange format, plus live-registry import/export/delete
// when running on Windows.
package main

func main() {
	execute()
}
