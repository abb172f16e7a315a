package diskmon

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// mountFields is the minimum column count of a mount table line:
// device, mount point, fstype.
const mountFields = 3

// parseMounts reads a /proc/self/mounts style table. Lines with fewer
// than three fields are ignored rather than treated as errors; the
// kernel writes this file, but overlay tools have been known to append
// garbage to copies of it.
func parseMounts(r io.Reader) ([]Mount, error) {
	var mounts []Mount

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < mountFields {
			continue
		}

		mounts = append(mounts, Mount{
			Device:     unescapeMount(fields[0]),
			MountPoint: unescapeMount(fields[1]),
			FSType:     fields[2],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}

	return mounts, nil
}

// unescapeMount reverses the octal escapes the kernel uses for
// whitespace and backslashes in mount paths.
func unescapeMount(s string) string {
	replacer := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)

	return replacer.Replace(s)
}
