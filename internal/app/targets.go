package app

import (
	"errors"
	"path/filepath"
	"strings"
)

type uploadPair struct {
	local  string
	remote string
}

// uploadTargets pairs local files with device paths. A single argument goes
// to the default directory under its own name. Otherwise the last argument
// is the target; with several sources it is a directory, and a target ending
// in "/" gets each source's name appended.
func uploadTargets(args []string) ([]uploadPair, error) {
	if len(args) == 0 {
		return nil, errors.New("not enough parameters")
	}
	sources := args
	target := defaultDir + "/" + filepath.Base(args[0])
	if len(args) > 1 {
		sources, target = args[:len(args)-1], args[len(args)-1]
		if len(args) > 2 && !strings.HasSuffix(target, "/") {
			target += "/"
		}
	}
	pairs := make([]uploadPair, len(sources))
	for i, src := range sources {
		remote := target
		if strings.HasSuffix(target, "/") {
			remote += filepath.Base(src)
		}
		pairs[i] = uploadPair{local: src, remote: remote}
	}
	return pairs, nil
}

// singleUpload fills in the target of a one-file upload.
func singleUpload(args []string) []string {
	args = append([]string(nil), args...)
	if len(args) == 1 {
		args = append(args, defaultDir+"/")
	}
	return args
}
