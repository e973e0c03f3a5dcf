package rc

// rc endpoints used by rcpanes. Every call is a POST with a JSON body.
const (
	EndpointList        = "/operations/list"
	EndpointMkdir       = "/operations/mkdir"
	EndpointAbout       = "/operations/about"
	EndpointCopyFile    = "/operations/copyfile"
	EndpointMoveFile    = "/operations/movefile"
	EndpointDeleteFile  = "/operations/deletefile"
	EndpointPurge       = "/operations/purge"
	EndpointSyncCopy    = "/sync/copy"
	EndpointSyncMove    = "/sync/move"
	EndpointStats       = "/core/stats"
	EndpointTransferred = "/core/transferred"
	EndpointVersion     = "/core/version"
	EndpointJobStop     = "/job/stop"
	EndpointListRemotes = "/config/listremotes"
)

// asyncEndpoints start a background job on the server and return its id at once.
var asyncEndpoints = map[string]bool{
	EndpointSyncCopy:   true,
	EndpointSyncMove:   true,
	EndpointPurge:      true,
	EndpointCopyFile:   true,
	EndpointMoveFile:   true,
	EndpointDeleteFile: true,
}

// readOnlyEndpoints may be retried by the transport when retries are enabled.
var readOnlyEndpoints = map[string]bool{
	EndpointList:        true,
	EndpointAbout:       true,
	EndpointStats:       true,
	EndpointTransferred: true,
	EndpointVersion:     true,
	EndpointListRemotes: true,
}

// IsAsync reports whether calls to endpoint carry "_async": true.
func IsAsync(endpoint string) bool {
	return asyncEndpoints[endpoint]
}
