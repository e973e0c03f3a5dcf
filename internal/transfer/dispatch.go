package transfer

import (
	"fmt"

	"github.com/rcpanes/rcpanes/internal/rc"
)

// Request is the rc call that carries out one queued operation.
type Request struct {
	Endpoint string
	Params   map[string]interface{}
}

type routeKey struct {
	op   OpKind
	item ItemKind
}

type route struct {
	endpoint string
	params   func(QueuedOperation) map[string]interface{}
}

// routes covers every valid {op, item} pair.
var routes = map[routeKey]route{
	{OpCopy, ItemFolder}:   {rc.EndpointSyncCopy, folderTransferParams(false)},
	{OpMove, ItemFolder}:   {rc.EndpointSyncMove, folderTransferParams(true)},
	{OpDelete, ItemFolder}: {rc.EndpointPurge, removeParams},
	{OpCopy, ItemFile}:     {rc.EndpointCopyFile, fileTransferParams},
	{OpMove, ItemFile}:     {rc.EndpointMoveFile, fileTransferParams},
	{OpDelete, ItemFile}:   {rc.EndpointDeleteFile, removeParams},
}

func folderTransferParams(deleteEmptySrcDirs bool) func(QueuedOperation) map[string]interface{} {
	return func(q QueuedOperation) map[string]interface{} {
		params := map[string]interface{}{
			"srcFs": q.Path,
			"dstFs": q.DstRoot,
		}
		if deleteEmptySrcDirs {
			params["deleteEmptySrcDirs"] = true
		}
		return params
	}
}

func fileTransferParams(q QueuedOperation) map[string]interface{} {
	return map[string]interface{}{
		"srcFs":     q.Parent,
		"srcRemote": q.Leaf,
		"dstFs":     q.DstRoot,
		"dstRemote": q.Leaf,
	}
}

func removeParams(q QueuedOperation) map[string]interface{} {
	return map[string]interface{}{
		"fs":     q.Parent,
		"remote": q.Leaf,
	}
}

// RequestFor looks up the rc call for q. Pairs outside the table are an error.
func RequestFor(q QueuedOperation) (Request, error) {
	r, ok := routes[routeKey{q.Op, q.Item}]
	if !ok {
		return Request{}, fmt.Errorf("unknown operation %s on %s", q.Op, q.Item)
	}
	return Request{Endpoint: r.endpoint, Params: r.params(q)}, nil
}
