//go:build !unix

package filesystem

import "os"

func writable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0200 != 0
}
