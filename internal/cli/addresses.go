package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadAddresses reads one address per line. Blank lines and lines starting with # are ignored.
func LoadAddresses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open address file: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read address file: %w", err)
	}
	return out, nil
}

// CollectSeeds combines positional arguments with the contents of file, in that order.
func CollectSeeds(args []string, file string) ([]string, error) {
	seeds := append([]string{}, args...)
	if file != "" {
		fromFile, err := LoadAddresses(file)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, fromFile...)
	}
	return seeds, nil
}
