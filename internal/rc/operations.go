package rc

import (
	"context"

	"github.com/rcpanes/rcpanes/internal/models"
)

// List returns the entries of remote inside fs.
func (c *Client) List(ctx context.Context, fs, remote string) ([]models.ListItem, error) {
	var resp models.ListResponse
	if err := c.Call(ctx, EndpointList, models.ListRequest{FS: fs, Remote: remote}, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

// Mkdir creates the folder remote inside fs.
func (c *Client) Mkdir(ctx context.Context, fs, remote string) error {
	return c.Call(ctx, EndpointMkdir, models.RemotePathRequest{FS: fs, Remote: remote}, nil)
}

// About returns disk usage for fs.
func (c *Client) About(ctx context.Context, fs string) (*models.AboutResponse, error) {
	var resp models.AboutResponse
	if err := c.Call(ctx, EndpointAbout, models.AboutRequest{FS: fs}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRemotes returns the names of the remotes configured on the server.
func (c *Client) ListRemotes(ctx context.Context) ([]string, error) {
	var resp models.RemotesResponse
	if err := c.Call(ctx, EndpointListRemotes, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.Remotes, nil
}

// Version returns the server build information.
func (c *Client) Version(ctx context.Context) (*models.VersionResponse, error) {
	var resp models.VersionResponse
	if err := c.Call(ctx, EndpointVersion, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats returns in-flight transfer statistics.
func (c *Client) Stats(ctx context.Context) (*models.StatsResponse, error) {
	var resp models.StatsResponse
	if err := c.Call(ctx, EndpointStats, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transferred returns the completed transfers the server still remembers.
func (c *Client) Transferred(ctx context.Context) ([]models.CompletedJob, error) {
	var resp models.TransferredResponse
	if err := c.Call(ctx, EndpointTransferred, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.Transferred, nil
}

// StopJob asks the server to stop the job with the given id.
func (c *Client) StopJob(ctx context.Context, jobID int64) error {
	return c.Call(ctx, EndpointJobStop, models.StopJobRequest{JobID: jobID}, nil)
}

// Start posts params to an async endpoint and returns the job id the
// server assigned.
func (c *Client) Start(ctx context.Context, endpoint string, params interface{}) (int64, error) {
	var resp models.AsyncJobResponse
	if err := c.Call(ctx, endpoint, params, &resp); err != nil {
		return 0, err
	}
	return resp.JobID, nil
}
