package transfer

import (
	"reflect"
	"testing"

	"github.com/rcpanes/rcpanes/internal/rc"
)

func TestRequestFor(t *testing.T) {
	folder := QueuedOperation{Item: ItemFolder, Path: "a:/docs/B", Parent: "a:/docs/", Leaf: "B", DstRoot: "b:/out/B"}
	file := QueuedOperation{Item: ItemFile, Path: "a:/docs/x.txt", Parent: "a:/docs/", Leaf: "x.txt", DstRoot: "b:/out/"}

	with := func(q QueuedOperation, op OpKind) QueuedOperation {
		q.Op = op
		return q
	}

	tests := []struct {
		name     string
		op       QueuedOperation
		endpoint string
		params   map[string]interface{}
	}{
		{"copy folder", with(folder, OpCopy), rc.EndpointSyncCopy,
			map[string]interface{}{"srcFs": "a:/docs/B", "dstFs": "b:/out/B"}},
		{"move folder", with(folder, OpMove), rc.EndpointSyncMove,
			map[string]interface{}{"srcFs": "a:/docs/B", "dstFs": "b:/out/B", "deleteEmptySrcDirs": true}},
		{"delete folder", with(folder, OpDelete), rc.EndpointPurge,
			map[string]interface{}{"fs": "a:/docs/", "remote": "B"}},
		{"copy file", with(file, OpCopy), rc.EndpointCopyFile,
			map[string]interface{}{"srcFs": "a:/docs/", "srcRemote": "x.txt", "dstFs": "b:/out/", "dstRemote": "x.txt"}},
		{"move file", with(file, OpMove), rc.EndpointMoveFile,
			map[string]interface{}{"srcFs": "a:/docs/", "srcRemote": "x.txt", "dstFs": "b:/out/", "dstRemote": "x.txt"}},
		{"delete file", with(file, OpDelete), rc.EndpointDeleteFile,
			map[string]interface{}{"fs": "a:/docs/", "remote": "x.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := RequestFor(tt.op)
			if err != nil {
				t.Fatalf("RequestFor failed: %v", err)
			}
			if req.Endpoint != tt.endpoint {
				t.Errorf("Expected endpoint %s, got %s", tt.endpoint, req.Endpoint)
			}
			if !reflect.DeepEqual(req.Params, tt.params) {
				t.Errorf("Expected params %v, got %v", tt.params, req.Params)
			}
			if !rc.IsAsync(req.Endpoint) {
				t.Errorf("Endpoint %s should be async", req.Endpoint)
			}
		})
	}
}

func TestRequestForUnknownPair(t *testing.T) {
	if _, err := RequestFor(QueuedOperation{Op: OpKind(9), Item: ItemFile}); err == nil {
		t.Error("Expected error for unknown operation kind")
	}
	if _, err := RequestFor(QueuedOperation{Op: OpCopy, Item: ItemKind(0)}); err == nil {
		t.Error("Expected error for unknown item kind")
	}
}
