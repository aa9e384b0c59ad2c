package events

import "github.com/atomicstack/ultimate-control/internal/logging"

type TransferTracer struct{}

var Transfer = TransferTracer{}

func (TransferTracer) List(session, dir string, entries int) {
	logging.Trace("transfer.list", map[string]interface{}{"session": session, "dir": dir, "entries": entries})
}

func (TransferTracer) Upload(session, path string, size int, overwrite bool) {
	logging.Trace("transfer.upload", map[string]interface{}{
		"session":   session,
		"path":      path,
		"size":      size,
		"overwrite": overwrite,
	})
}

func (TransferTracer) Download(session, path string, size int) {
	logging.Trace("transfer.download", map[string]interface{}{"session": session, "path": path, "size": size})
}

func (TransferTracer) Delete(session, path string) {
	logging.Trace("transfer.delete", map[string]interface{}{"session": session, "path": path})
}
