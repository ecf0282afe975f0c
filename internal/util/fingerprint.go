package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"strings"
)

const fingerprintTail = 2048

// CalculateFileFingerprint calculates CRC32 fingerprint of the last 2KB of a file
func CalculateFileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	readSize := int64(fingerprintTail)
	if stat.Size() < readSize {
		readSize = stat.Size()
	}

	if _, err = file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err = io.ReadFull(file, data); err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}

// DatasetFingerprint summarizes the state of several files in one string.
// Missing files contribute a "-" marker so that their later creation changes
// the result.
func DatasetFingerprint(paths ...string) string {
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := GetFileInfo(p)
		if err != nil {
			parts = append(parts, "-")
			continue
		}
		crc, err := CalculateFileFingerprint(p)
		if err != nil {
			crc = "?"
		}
		parts = append(parts, fmt.Sprintf("%d:%d:%d:%s", info.Inode, info.Size, info.ModTime, crc))
	}
	return strings.Join(parts, "|")
}
