package mailbox

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"estate-mail-scraper/utils"
)

// Message is one fetched mail: the raw RFC822 bytes plus the server-side
// received timestamp and the sequence number used to flag it afterwards.
type Message struct {
	SeqNum     uint32
	Raw        []byte
	ReceivedAt time.Time
}

// Client wraps an authenticated IMAP session with INBOX selected.
type Client struct {
	conn   *client.Client
	logger *utils.Logger
}

// Connect dials the IMAP server over TLS, logs in and selects INBOX.
// Dial and login go through the retry policy; a failure here is fatal for
// the whole run, so it is worth a few attempts.
func Connect(addr, account, password string, retry *utils.RetryConfig, logger *utils.Logger) (*Client, error) {
	var conn *client.Client

	err := retry.Do("imap-connect", func() error {
		c, err := client.DialTLS(addr, nil)
		if err != nil {
			return fmt.Errorf("mailbox: dial %s: %w", addr, err)
		}
		if err := c.Login(account, password); err != nil {
			_ = c.Logout()
			return fmt.Errorf("mailbox: login as %s: %w", account, err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := conn.Select("INBOX", false); err != nil {
		_ = conn.Logout()
		return nil, fmt.Errorf("mailbox: select inbox: %w", err)
	}

	logger.Info("[mailbox] Connected to %s as %s", addr, account)
	return &Client{conn: conn, logger: logger}, nil
}

// Search returns the sequence numbers of all messages from any of the given
// senders, optionally restricted to messages received since the given time.
func (c *Client) Search(senders []string, since time.Time) ([]uint32, error) {
	if len(senders) == 0 {
		return nil, fmt.Errorf("mailbox: no sender criteria configured")
	}

	criteria := senderCriteria(senders)
	if !since.IsZero() {
		criteria.Since = since
	}

	ids, err := c.conn.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("mailbox: search: %w", err)
	}
	return ids, nil
}

// senderCriteria builds an OR tree over FROM matches, one leaf per sender.
func senderCriteria(senders []string) *imap.SearchCriteria {
	root := imap.NewSearchCriteria()
	root.Header.Add("From", senders[0])

	for _, sender := range senders[1:] {
		leaf := imap.NewSearchCriteria()
		leaf.Header.Add("From", sender)

		combined := imap.NewSearchCriteria()
		combined.Or = [][2]*imap.SearchCriteria{{root, leaf}}
		root = combined
	}
	return root
}

// Fetch downloads one message: the full RFC822 body plus the internal date,
// which is authoritative for age filtering and recency scoring.
func (c *Client) Fetch(seqNum uint32) (*Message, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNum)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate}

	ch := make(chan *imap.Message, 1)
	if err := c.conn.Fetch(seqset, items, ch); err != nil {
		return nil, fmt.Errorf("mailbox: fetch %d: %w", seqNum, err)
	}

	msg := <-ch
	if msg == nil {
		return nil, fmt.Errorf("mailbox: fetch %d: no data returned", seqNum)
	}

	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("mailbox: fetch %d: missing body section", seqNum)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("mailbox: fetch %d: read body: %w", seqNum, err)
	}

	received := msg.InternalDate
	if received.IsZero() {
		c.logger.Warn("[mailbox] Message %d has no internal date, using now", seqNum)
		received = time.Now()
	}

	return &Message{SeqNum: seqNum, Raw: raw, ReceivedAt: received.UTC()}, nil
}

// MarkSeen flags the message as \Seen. Searches do not filter on the flag;
// it only marks processed mail when the mailbox is read by hand. Best
// effort only.
func (c *Client) MarkSeen(seqNum uint32) error {
	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNum)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.conn.Store(seqset, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		return fmt.Errorf("mailbox: flag %d seen: %w", seqNum, err)
	}
	return nil
}

// Close logs out and drops the connection.
func (c *Client) Close() error {
	return c.conn.Logout()
}
