// Package transfer is the bulk file channel to the device, spoken over FTP.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"path"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/atomicstack/ultimate-control/internal/logging/events"
)

// Entry is one directory listing line.
type Entry struct {
	Name string
	Size uint64
	Time time.Time
	Dir  bool
	// Target is set for links.
	Target string
}

// Options configures Dial.
type Options struct {
	User     string
	Password string
	Timeout  time.Duration
	Session  string
}

// serverConn is the subset of *ftp.ServerConn the client uses.
type serverConn interface {
	List(path string) ([]*ftp.Entry, error)
	ChangeDir(path string) error
	Stor(path string, r io.Reader) error
	Retr(path string) (io.ReadCloser, error)
	Delete(path string) error
	Quit() error
}

type ftpConn struct {
	*ftp.ServerConn
}

func (c ftpConn) Retr(path string) (io.ReadCloser, error) {
	return c.ServerConn.Retr(path)
}

// Client is a logged-in transfer channel.
type Client struct {
	conn    serverConn
	session string
}

var dialFn = func(addr string, timeout time.Duration) (*ftp.ServerConn, error) {
	return ftp.Dial(addr, ftp.DialWithTimeout(timeout))
}

// Dial connects and logs in. An empty user logs in anonymously.
func Dial(addr string, opts Options) (*Client, error) {
	conn, err := dialFn(addr, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("dial transfer %s: %w", addr, err)
	}
	user := opts.User
	if user == "" {
		user = "anonymous"
	}
	if err := conn.Login(user, opts.Password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("login to %s: %w", addr, err)
	}
	return &Client{conn: ftpConn{conn}, session: opts.Session}, nil
}

// List returns the entries of dir.
func (c *Client) List(dir string) ([]Entry, error) {
	raw, err := c.conn.List(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	out := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		out = append(out, Entry{
			Name:   e.Name,
			Size:   e.Size,
			Time:   e.Time,
			Dir:    e.Type == ftp.EntryTypeFolder,
			Target: e.Target,
		})
	}
	events.Transfer.List(c.session, dir, len(out))
	return out, nil
}

// Upload stores r at remote. With overwrite an existing file is removed
// first.
func (c *Client) Upload(r io.Reader, remote string, overwrite bool) error {
	dir, name := path.Split(remote)
	if name == "" {
		return fmt.Errorf("upload %s: no file name", remote)
	}
	if dir != "" {
		if err := c.conn.ChangeDir(dir); err != nil {
			return fmt.Errorf("upload %s: %w", remote, err)
		}
	}
	if overwrite {
		if err := c.remove(name, true); err != nil {
			return fmt.Errorf("upload %s: %w", remote, err)
		}
	}
	counter := &countingReader{r: r}
	if err := c.conn.Stor(name, counter); err != nil {
		return fmt.Errorf("upload %s: %w", remote, err)
	}
	events.Transfer.Upload(c.session, remote, counter.n, overwrite)
	return nil
}

// Download copies remote into w.
func (c *Client) Download(remote string, w io.Writer) error {
	dir, name := path.Split(remote)
	if dir != "" {
		if err := c.conn.ChangeDir(dir); err != nil {
			return fmt.Errorf("download %s: %w", remote, err)
		}
	}
	body, err := c.conn.Retr(name)
	if err != nil {
		return fmt.Errorf("download %s: %w", remote, err)
	}
	n, err := io.Copy(w, body)
	if cerr := body.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("download %s: %w", remote, err)
	}
	events.Transfer.Download(c.session, remote, int(n))
	return nil
}

// Delete removes remote. A quiet delete ignores refusals from the server.
func (c *Client) Delete(remote string, quiet bool) error {
	dir, name := path.Split(remote)
	if dir != "" {
		if err := c.conn.ChangeDir(dir); err != nil {
			return fmt.Errorf("delete %s: %w", remote, err)
		}
	}
	if err := c.remove(name, quiet); err != nil {
		return fmt.Errorf("delete %s: %w", remote, err)
	}
	events.Transfer.Delete(c.session, remote)
	return nil
}

func (c *Client) remove(name string, quiet bool) error {
	err := c.conn.Delete(name)
	var reply *textproto.Error
	if quiet && errors.As(err, &reply) {
		return nil
	}
	return err
}

// Close logs out.
func (c *Client) Close() error {
	return c.conn.Quit()
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
