package resource

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kiln-games/depthforge/internal/domain"
	"github.com/kiln-games/depthforge/internal/utils"
)

// ErrNoNodeInRange reports a harvest attempt with no active node within
// reach.
var ErrNoNodeInRange = fmt.Errorf("no active resource node in range")

// Node is one harvestable resource spawn. A harvested node stays inactive
// until its respawn timestamp passes; activity is a pure function of the
// clock, there is no background timer.
type Node struct {
	ID       string              `json:"id"`
	Type     domain.ResourceType `json:"type"`
	Rarity   domain.Rarity       `json:"rarity"`
	Position domain.Position     `json:"position"`
	Amount   int                 `json:"amount"`

	active    bool
	respawnAt time.Time
}

// Active reports whether the node can be harvested at now, reactivating it
// lazily when its respawn time has passed.
func (n *Node) Active(now time.Time, rnd func() float64) bool {
	if !n.active && !now.Before(n.respawnAt) {
		n.active = true
		n.Amount = rollAmount(n.Rarity, rnd)
	}
	return n.active
}

// RespawnAt returns the time an inactive node comes back.
func (n *Node) RespawnAt() time.Time { return n.respawnAt }

func rollAmount(r domain.Rarity, rnd func() float64) int {
	rng := amountRanges[r]
	return rng[0] + int(rnd()*float64(rng[1]-rng[0]+1))
}

// Field owns the resource nodes of one floor and the ledger harvests feed
// into.
type Field struct {
	ledger *Ledger
	nodes  []*Node

	rnd   func() float64
	now   func() time.Time
	newID func() string
}

// NewField creates a field harvesting into ledger.
func NewField(ledger *Ledger) *Field {
	return &Field{
		ledger: ledger,
		rnd:    utils.RandomFloat,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Ledger returns the ledger harvests deposit into.
func (f *Field) Ledger() *Ledger { return f.ledger }

// Nodes returns the current node list.
func (f *Field) Nodes() []*Node {
	out := make([]*Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// GenerateNodes replaces the field's nodes for a floor. Node count grows
// with depth, and deeper floors shift the rarity roll away from common.
func (f *Field) GenerateNodes(area domain.Dimensions, floor int) []*Node {
	count := BaseNodeCount + floor*NodesPerFloor

	f.nodes = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		rarity := f.rollRarity(floor)
		node := &Node{
			ID:     f.newID(),
			Type:   f.randomType(),
			Rarity: rarity,
			Position: domain.Position{
				X: f.rnd() * area.Width,
				Y: f.rnd() * area.Height,
			},
			Amount: rollAmount(rarity, f.rnd),
			active: true,
		}
		f.nodes = append(f.nodes, node)
	}
	return f.Nodes()
}

func (f *Field) randomType() domain.ResourceType {
	idx := int(f.rnd() * float64(len(domain.ResourceTypes)))
	if idx >= len(domain.ResourceTypes) {
		idx = len(domain.ResourceTypes) - 1
	}
	return domain.ResourceTypes[idx]
}

// rollRarity draws a node rarity. The floor bonus erodes the common band
// at full rate and the rare band at half rate; epic's upper bound stays
// fixed.
func (f *Field) rollRarity(floor int) domain.Rarity {
	roll := f.rnd()
	bonus := float64(floor) * 0.02

	switch {
	case roll < 0.5-bonus:
		return domain.RarityCommon
	case roll < 0.8-bonus*0.5:
		return domain.RarityRare
	case roll < 0.95:
		return domain.RarityEpic
	default:
		return domain.RarityLegendary
	}
}

// TryHarvest harvests the first active node within range of pos. Yield is
// the node's amount plus a gathering-skill bonus. The node deactivates and
// the ledger is credited only when every check passes; a failed harvest
// leaves both untouched.
func (f *Field) TryHarvest(pos domain.Position, skillLevel, stamina int) (*domain.HarvestResult, error) {
	node := f.nodeInRange(pos)
	if node == nil {
		return nil, ErrNoNodeInRange
	}

	if stamina < HarvestStaminaCost {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientStamina, stamina, HarvestStaminaCost)
	}

	yield := node.Amount + int(math.Floor(float64(skillLevel)*SkillYieldRate))

	if err := f.ledger.Add(node.Type, node.Rarity, yield); err != nil {
		return nil, err
	}

	node.active = false
	node.respawnAt = f.now().Add(respawnDelays[node.Rarity])

	return &domain.HarvestResult{
		NodeID:      node.ID,
		Type:        node.Type,
		Rarity:      node.Rarity,
		Amount:      yield,
		StaminaCost: HarvestStaminaCost,
	}, nil
}

// NodeSnapshot is the serializable state of one node.
type NodeSnapshot struct {
	ID        string              `json:"id"`
	Type      domain.ResourceType `json:"type"`
	Rarity    domain.Rarity       `json:"rarity"`
	Position  domain.Position     `json:"position"`
	Amount    int                 `json:"amount"`
	Active    bool                `json:"active"`
	RespawnAt time.Time           `json:"respawn_at,omitempty"`
}

// FieldSnapshot is the serializable state of a field's nodes. The ledger
// snapshots separately.
type FieldSnapshot struct {
	Nodes []NodeSnapshot `json:"nodes"`
}

// Export captures the field's nodes for persistence.
func (f *Field) Export() *FieldSnapshot {
	snapshot := &FieldSnapshot{Nodes: make([]NodeSnapshot, 0, len(f.nodes))}
	for _, node := range f.nodes {
		snapshot.Nodes = append(snapshot.Nodes, NodeSnapshot{
			ID:        node.ID,
			Type:      node.Type,
			Rarity:    node.Rarity,
			Position:  node.Position,
			Amount:    node.Amount,
			Active:    node.active,
			RespawnAt: node.respawnAt,
		})
	}
	return snapshot
}

// Import replaces the field's nodes with a snapshot.
func (f *Field) Import(snapshot *FieldSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	nodes := make([]*Node, 0, len(snapshot.Nodes))
	for _, ns := range snapshot.Nodes {
		if err := validBucket(ns.Type, ns.Rarity); err != nil {
			return fmt.Errorf("%w: node %s", err, ns.ID)
		}
		nodes = append(nodes, &Node{
			ID:        ns.ID,
			Type:      ns.Type,
			Rarity:    ns.Rarity,
			Position:  ns.Position,
			Amount:    ns.Amount,
			active:    ns.Active,
			respawnAt: ns.RespawnAt,
		})
	}
	f.nodes = nodes
	return nil
}

// nodeInRange returns the first active node strictly within harvest range,
// in generation order.
func (f *Field) nodeInRange(pos domain.Position) *Node {
	for _, node := range f.nodes {
		if !node.Active(f.now(), f.rnd) {
			continue
		}
		dx := pos.X - node.Position.X
		dy := pos.Y - node.Position.Y
		if math.Sqrt(dx*dx+dy*dy) < HarvestRange {
			return node
		}
	}
	return nil
}
