package adblock

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

var snapshotMagic = []byte("WFAB")

type snapshot struct {
	Version int      `msgpack:"v"`
	Rules   []string `msgpack:"r"`
}

// Serialize encodes the accepted rules so the matcher can be rebuilt without
// reparsing the original list text.
func (c *Client) Serialize() ([]byte, error) {
	c.mu.RLock()
	snap := snapshot{Version: SnapshotVersion, Rules: append([]string(nil), c.raw...)}
	c.mu.RUnlock()

	body, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("encode matcher snapshot: %w", err)
	}
	return append(append([]byte(nil), snapshotMagic...), body...), nil
}

// Deserialize replaces the rules with those of a snapshot made by Serialize.
func (c *Client) Deserialize(data []byte) error {
	body, ok := bytes.CutPrefix(data, snapshotMagic)
	if !ok {
		return ErrInvalidSnapshot
	}

	var snap snapshot
	if err := msgpack.Unmarshal(body, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: version %d", ErrInvalidSnapshot, snap.Version)
	}

	rules := make([]*Rule, 0, len(snap.Rules))
	for _, line := range snap.Rules {
		r, err := ParseRule(line)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		rules = append(rules, r)
	}

	c.replace(rules, 0)
	return nil
}

// Load accepts either a snapshot or plain filter-list text and replaces the
// current rules with it.
func (c *Client) Load(data []byte) (ParseResult, error) {
	if bytes.HasPrefix(data, snapshotMagic) {
		if err := c.Deserialize(data); err != nil {
			return ParseResult{}, err
		}
		return ParseResult{Added: c.RuleCount()}, nil
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return c.Replace(text), nil
}
