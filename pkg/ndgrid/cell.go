package ndgrid

// OccupancySettable is implemented by cells that carry a traversability flag.
type OccupancySettable interface {
	SetOccupancy(free bool)
}

// VelocitySettable is implemented by cells that carry a propagation speed.
type VelocitySettable interface {
	SetVelocity(v float64)
}

// OccupancyReader is implemented by cells whose traversability can be read back.
type OccupancyReader interface {
	Occupancy() bool
}

// Cell is the default grid cell: a traversability flag and a normalised
// velocity. A new cell is free with velocity 1.
type Cell struct {
	free     bool
	velocity float64
}

// NewCell returns a free cell with unit velocity.
func NewCell() *Cell {
	return &Cell{free: true, velocity: 1}
}

// SetOccupancy sets whether the cell is traversable.
func (c *Cell) SetOccupancy(free bool) { c.free = free }

// Occupancy reports whether the cell is traversable.
func (c *Cell) Occupancy() bool { return c.free }

// SetVelocity sets the cell's velocity.
func (c *Cell) SetVelocity(v float64) { c.velocity = v }

// Velocity returns the cell's velocity.
func (c *Cell) Velocity() float64 { return c.velocity }
