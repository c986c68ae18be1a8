package util

import (
	"os"
	"path"
	"strings"
)

// WriteToFile writes the strings to the file separated by new lines
func WriteToFile(savePath string, content ...string) error {
	return os.WriteFile(savePath, []byte(strings.Join(content, "\n")+"\n"), 0644)
}

// AppendToFile appends each string to the file as a line, creating the file if needed
func AppendToFile(savePath string, content ...string) error {
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// RemoveContents deletes everything in the directory except the files in keep
func RemoveContents(dir string, keep ...string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	names, err := d.Readdirnames(-1)
	if err != nil {
		return err
	}
	kept := make(map[string]bool)
	for _, k := range keep {
		kept[k] = true
	}
	for _, name := range names {
		if kept[name] {
			continue
		}
		if err = os.RemoveAll(path.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// CleanDir creates the directory or empties it if it exists
func CleanDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		if err := RemoveContents(dir); err != nil {
			return err
		}
	}
	return os.MkdirAll(dir, 0777)
}
