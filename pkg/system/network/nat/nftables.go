//go:build linux

package network_nat

import (
	"fmt"

	"github.com/google/nftables"
	"github.com/google/nftables/binaryutil"
	"github.com/google/nftables/expr"
)

// NFTablesConn is the subset of *nftables.Conn used here.
type NFTablesConn interface {
	AddTable(t *nftables.Table) *nftables.Table
	DelTable(t *nftables.Table)
	ListTablesOfFamily(family nftables.TableFamily) ([]*nftables.Table, error)
	AddChain(c *nftables.Chain) *nftables.Chain
	AddRule(r *nftables.Rule) *nftables.Rule
	Flush() error
}

/* NFTables
 *
 * NFTables owns a single ip-family table holding everything
 * the hotspot needs to share an uplink: a masquerade rule on
 * the uplink and forward rules between the AP interface and
 * the uplink. Install replaces the table wholesale and Remove
 * drops it, so nothing outside the table is ever touched.
 */

type NFTables struct {
	conn  NFTablesConn
	table string
}

func NewNFTables(table string) (*NFTables, error) {
	conn, err := nftables.New()
	if err != nil {
		return nil, fmt.Errorf("failed to open nftables connection: %w", err)
	}
	return NewNFTablesWithConn(conn, table), nil
}

func NewNFTablesWithConn(conn NFTablesConn, table string) *NFTables {
	return &NFTables{conn: conn, table: table}
}

func (n *NFTables) existing() (*nftables.Table, error) {
	tables, err := n.conn.ListTablesOfFamily(nftables.TableFamilyIPv4)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	for _, t := range tables {
		if t.Name == n.table {
			return t, nil
		}
	}
	return nil, nil
}

// Install masquerades traffic leaving wan and lets ap reach wan, with
// only established and related traffic allowed back.
func (n *NFTables) Install(ap, wan string) error {
	old, err := n.existing()
	if err != nil {
		return err
	}
	if old != nil {
		n.conn.DelTable(old)
	}

	table := n.conn.AddTable(&nftables.Table{
		Name:   n.table,
		Family: nftables.TableFamilyIPv4,
	})

	postrouting := n.conn.AddChain(&nftables.Chain{
		Name:     "postrouting",
		Table:    table,
		Type:     nftables.ChainTypeNAT,
		Hooknum:  nftables.ChainHookPostrouting,
		Priority: nftables.ChainPriorityNATSource,
	})

	forward := n.conn.AddChain(&nftables.Chain{
		Name:     "forward",
		Table:    table,
		Type:     nftables.ChainTypeFilter,
		Hooknum:  nftables.ChainHookForward,
		Priority: nftables.ChainPriorityFilter,
	})

	for _, r := range Rules(table, postrouting, forward, ap, wan) {
		n.conn.AddRule(r)
	}

	if err := n.conn.Flush(); err != nil {
		return fmt.Errorf("failed to install nat table %s: %w", n.table, err)
	}
	return nil
}

// Remove deletes the table if it exists.
func (n *NFTables) Remove() error {
	t, err := n.existing()
	if err != nil {
		return err
	}
	if t == nil {
		return nil
	}
	n.conn.DelTable(t)
	if err := n.conn.Flush(); err != nil {
		return fmt.Errorf("failed to remove nat table %s: %w", n.table, err)
	}
	return nil
}

// Rules builds the three hotspot rules without touching the kernel.
func Rules(table *nftables.Table, postrouting, forward *nftables.Chain, ap, wan string) []*nftables.Rule {
	return []*nftables.Rule{
		{
			Table: table,
			Chain: postrouting,
			Exprs: append(matchIfname(expr.MetaKeyOIFNAME, wan),
				&expr.Masq{},
			),
			UserData: []byte("hotspot-masquerade"),
		},
		{
			Table: table,
			Chain: forward,
			Exprs: append(append(
				matchIfname(expr.MetaKeyIIFNAME, ap),
				matchIfname(expr.MetaKeyOIFNAME, wan)...),
				&expr.Verdict{Kind: expr.VerdictAccept},
			),
			UserData: []byte("hotspot-forward-out"),
		},
		{
			Table: table,
			Chain: forward,
			Exprs: append(append(append(
				matchIfname(expr.MetaKeyIIFNAME, wan),
				matchIfname(expr.MetaKeyOIFNAME, ap)...),
				matchEstablished()...),
				&expr.Verdict{Kind: expr.VerdictAccept},
			),
			UserData: []byte("hotspot-forward-return"),
		},
	}
}

// ifname pads an interface name to IFNAMSIZ.
func ifname(name string) []byte {
	b := make([]byte, 16)
	copy(b, name)
	return b
}

func matchIfname(key expr.MetaKey, name string) []expr.Any {
	return []expr.Any{
		&expr.Meta{Key: key, Register: 1},
		&expr.Cmp{
			Op:       expr.CmpOpEq,
			Register: 1,
			Data:     ifname(name),
		},
	}
}

func matchEstablished() []expr.Any {
	return []expr.Any{
		&expr.Ct{Key: expr.CtKeySTATE, Register: 1},
		&expr.Bitwise{
			SourceRegister: 1,
			DestRegister:   1,
			Len:            4,
			Mask:           binaryutil.NativeEndian.PutUint32(expr.CtStateBitESTABLISHED | expr.CtStateBitRELATED),
			Xor:            []byte{0, 0, 0, 0},
		},
		&expr.Cmp{
			Op:       expr.CmpOpNeq,
			Register: 1,
			Data:     []byte{0, 0, 0, 0},
		},
	}
}
