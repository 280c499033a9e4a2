// Package record keeps the event log of a game and archives it as a CAR file of
// DAG-CBOR blocks. An archived record can be read back and replayed to rebuild the
// final board.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-car"
	carutil "github.com/ipld/go-car/util"
	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-multihash"

	"github.com/justinabrahms/atbackgammon/internal/game"
)

const formatVersion = 1

var (
	ErrCorrupt     = errors.New("corrupt record")
	ErrMissingRoot = errors.New("record has no root block")
)

var blockPrefix = cid.Prefix{
	Version:  1,
	Codec:    cid.DagCBOR,
	MhType:   multihash.SHA2_256,
	MhLength: -1,
}

type EntryType string

const (
	EntryStart   EntryType = "start"
	EntryTurn    EntryType = "turn"
	EntryRoll    EntryType = "roll"
	EntryMove    EntryType = "move"
	EntryUndo    EntryType = "undo"
	EntryConfirm EntryType = "confirm"
	EntryFinish  EntryType = "finish"
)

// Entry is one accepted mutation. Only the fields relevant to Type are set.
type Entry struct {
	Type     EntryType     `json:"type"`
	PlayerID string        `json:"playerId,omitempty"`
	Dice     [2]int        `json:"dice"`
	From     game.Location `json:"from"`
	Value    int           `json:"value,omitempty"`
}

// Record is the log of one game. It is not safe for concurrent use; callers hold
// the game's lock while appending.
type Record struct {
	GameID   string  `json:"gameId"`
	RuleName string  `json:"ruleName"`
	HostID   string  `json:"hostId"`
	GuestID  string  `json:"guestId"`
	WinnerID string  `json:"winnerId,omitempty"`
	Entries  []Entry `json:"entries"`
}

// New starts an empty record for a session whose players are bound.
func New(s *game.Session) *Record {
	r := &Record{GameID: s.ID, RuleName: s.RuleName}
	if s.Host != nil {
		r.HostID = s.Host.ID
	}
	if s.Guest != nil {
		r.GuestID = s.Guest.ID
	}
	return r
}

func (r *Record) Add(entries ...Entry) {
	r.Entries = append(r.Entries, entries...)
}

// Block is an encoded DAG-CBOR block and its CID.
type Block struct {
	Cid  cid.Cid
	Data []byte
}

func encode(n ipld.Node) (Block, error) {
	var buf bytes.Buffer
	if err := dagcbor.Encode(n, &buf); err != nil {
		return Block{}, fmt.Errorf("failed to encode block: %w", err)
	}
	c, err := blockPrefix.Sum(buf.Bytes())
	if err != nil {
		return Block{}, fmt.Errorf("failed to hash block: %w", err)
	}
	return Block{Cid: c, Data: buf.Bytes()}, nil
}

func assembleLocation(loc game.Location) qp.Assemble {
	return qp.Map(3, func(ma ipld.MapAssembler) {
		qp.MapEntry(ma, "kind", qp.String(string(loc.Kind)))
		qp.MapEntry(ma, "index", qp.Int(int64(loc.Index)))
		qp.MapEntry(ma, "color", qp.String(loc.Color.String()))
	})
}

func encodeEntry(e Entry) (Block, error) {
	n, err := qp.BuildMap(basicnode.Prototype.Any, -1, func(ma ipld.MapAssembler) {
		qp.MapEntry(ma, "type", qp.String(string(e.Type)))
		qp.MapEntry(ma, "player", qp.String(e.PlayerID))
		switch e.Type {
		case EntryRoll:
			qp.MapEntry(ma, "dice", qp.List(2, func(la ipld.ListAssembler) {
				qp.ListEntry(la, qp.Int(int64(e.Dice[0])))
				qp.ListEntry(la, qp.Int(int64(e.Dice[1])))
			}))
		case EntryMove:
			qp.MapEntry(ma, "from", assembleLocation(e.From))
			qp.MapEntry(ma, "value", qp.Int(int64(e.Value)))
		}
	})
	if err != nil {
		return Block{}, fmt.Errorf("failed to build entry: %w", err)
	}
	return encode(n)
}

// Blocks encodes the record. The root block comes first and links every entry
// block in order.
func (r *Record) Blocks() ([]Block, error) {
	entries := make([]Block, 0, len(r.Entries))
	for i, e := range r.Entries {
		b, err := encodeEntry(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, b)
	}

	root, err := qp.BuildMap(basicnode.Prototype.Any, -1, func(ma ipld.MapAssembler) {
		qp.MapEntry(ma, "version", qp.Int(formatVersion))
		qp.MapEntry(ma, "gameId", qp.String(r.GameID))
		qp.MapEntry(ma, "ruleName", qp.String(r.RuleName))
		qp.MapEntry(ma, "host", qp.String(r.HostID))
		qp.MapEntry(ma, "guest", qp.String(r.GuestID))
		qp.MapEntry(ma, "winner", qp.String(r.WinnerID))
		qp.MapEntry(ma, "entries", qp.List(int64(len(entries)), func(la ipld.ListAssembler) {
			for _, b := range entries {
				qp.ListEntry(la, qp.Link(cidlink.Link{Cid: b.Cid}))
			}
		}))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build root: %w", err)
	}
	rootBlock, err := encode(root)
	if err != nil {
		return nil, err
	}
	return append([]Block{rootBlock}, entries...), nil
}

// WriteCAR writes the record as a CARv1 stream and returns the root CID.
func (r *Record) WriteCAR(w io.Writer) (cid.Cid, error) {
	blocks, err := r.Blocks()
	if err != nil {
		return cid.Undef, err
	}
	root := blocks[0].Cid
	if err := car.WriteHeader(&car.CarHeader{Roots: []cid.Cid{root}, Version: 1}, w); err != nil {
		return cid.Undef, fmt.Errorf("failed to write CAR header: %w", err)
	}
	// Entry blocks repeat when the same event happens twice; CAR readers expect
	// each block once.
	seen := make(map[cid.Cid]bool, len(blocks))
	for _, b := range blocks {
		if seen[b.Cid] {
			continue
		}
		seen[b.Cid] = true
		if err := carutil.LdWrite(w, b.Cid.Bytes(), b.Data); err != nil {
			return cid.Undef, fmt.Errorf("failed to write block %s: %w", b.Cid, err)
		}
	}
	return root, nil
}

// ReadCAR parses a stream written by WriteCAR. Every block is checked against its
// CID.
func ReadCAR(rd io.Reader) (*Record, cid.Cid, error) {
	reader, err := car.NewCarReader(rd)
	if err != nil {
		return nil, cid.Undef, fmt.Errorf("failed to create CAR reader: %w", err)
	}
	if len(reader.Header.Roots) != 1 {
		return nil, cid.Undef, fmt.Errorf("%w: %d roots", ErrMissingRoot, len(reader.Header.Roots))
	}
	root := reader.Header.Roots[0]

	blocks := make(map[cid.Cid][]byte)
	for {
		block, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cid.Undef, fmt.Errorf("failed to read block: %w", err)
		}
		sum, err := block.Cid().Prefix().Sum(block.RawData())
		if err != nil || !sum.Equals(block.Cid()) {
			return nil, cid.Undef, fmt.Errorf("%w: block %s does not match its hash", ErrCorrupt, block.Cid())
		}
		blocks[block.Cid()] = block.RawData()
	}

	rec, err := decodeRoot(root, blocks)
	if err != nil {
		return nil, cid.Undef, err
	}
	return rec, root, nil
}

func decodeBlock(c cid.Cid, blocks map[cid.Cid][]byte) (ipld.Node, error) {
	raw, ok := blocks[c]
	if !ok {
		return nil, fmt.Errorf("%w: block %s not found", ErrCorrupt, c)
	}
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: failed to decode CBOR: %v", ErrCorrupt, err)
	}
	return nb.Build(), nil
}

func lookupString(n ipld.Node, key string) (string, error) {
	v, err := n.LookupByString(key)
	if err != nil {
		return "", fmt.Errorf("%w: field %q: %v", ErrCorrupt, key, err)
	}
	return v.AsString()
}

func lookupInt(n ipld.Node, key string) (int, error) {
	v, err := n.LookupByString(key)
	if err != nil {
		return 0, fmt.Errorf("%w: field %q: %v", ErrCorrupt, key, err)
	}
	i, err := v.AsInt()
	return int(i), err
}

func decodeRoot(root cid.Cid, blocks map[cid.Cid][]byte) (*Record, error) {
	n, err := decodeBlock(root, blocks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingRoot, err)
	}
	version, err := lookupInt(n, "version")
	if err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
	}

	rec := &Record{}
	for key, dst := range map[string]*string{
		"gameId":   &rec.GameID,
		"ruleName": &rec.RuleName,
		"host":     &rec.HostID,
		"guest":    &rec.GuestID,
		"winner":   &rec.WinnerID,
	} {
		if *dst, err = lookupString(n, key); err != nil {
			return nil, err
		}
	}

	links, err := n.LookupByString("entries")
	if err != nil {
		return nil, fmt.Errorf("%w: field \"entries\": %v", ErrCorrupt, err)
	}
	iter := links.ListIterator()
	if iter == nil {
		return nil, fmt.Errorf("%w: entries is not a list", ErrCorrupt)
	}
	for !iter.Done() {
		_, v, err := iter.Next()
		if err != nil {
			return nil, err
		}
		link, err := v.AsLink()
		if err != nil {
			return nil, fmt.Errorf("%w: entry is not a link", ErrCorrupt)
		}
		cl, ok := link.(cidlink.Link)
		if !ok {
			return nil, fmt.Errorf("%w: unsupported link %s", ErrCorrupt, link)
		}
		e, err := decodeEntry(cl.Cid, blocks)
		if err != nil {
			return nil, err
		}
		rec.Entries = append(rec.Entries, e)
	}
	return rec, nil
}

func decodeEntry(c cid.Cid, blocks map[cid.Cid][]byte) (Entry, error) {
	n, err := decodeBlock(c, blocks)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	typ, err := lookupString(n, "type")
	if err != nil {
		return Entry{}, err
	}
	e.Type = EntryType(typ)
	if e.PlayerID, err = lookupString(n, "player"); err != nil {
		return Entry{}, err
	}

	switch e.Type {
	case EntryRoll:
		dice, err := n.LookupByString("dice")
		if err != nil || dice.Length() != 2 {
			return Entry{}, fmt.Errorf("%w: roll without two dice", ErrCorrupt)
		}
		for i := range e.Dice {
			v, err := dice.LookupByIndex(int64(i))
			if err != nil {
				return Entry{}, err
			}
			d, err := v.AsInt()
			if err != nil {
				return Entry{}, err
			}
			e.Dice[i] = int(d)
		}
	case EntryMove:
		from, err := n.LookupByString("from")
		if err != nil {
			return Entry{}, fmt.Errorf("%w: move without origin", ErrCorrupt)
		}
		kind, err := lookupString(from, "kind")
		if err != nil {
			return Entry{}, err
		}
		e.From.Kind = game.LocationKind(kind)
		if e.From.Index, err = lookupInt(from, "index"); err != nil {
			return Entry{}, err
		}
		color, err := lookupString(from, "color")
		if err != nil {
			return Entry{}, err
		}
		if err := e.From.Color.UnmarshalText([]byte(color)); err != nil {
			return Entry{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if e.Value, err = lookupInt(n, "value"); err != nil {
			return Entry{}, err
		}
	}
	return e, nil
}
