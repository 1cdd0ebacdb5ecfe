package state

// Clone returns a deep copy of g. Nothing in the copy aliases g.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Players = cloneSlice(g.Players)
	c.PhaseDone = cloneSlice(g.PhaseDone)
	c.Winner = cloneInt(g.Winner)
	c.Structures = cloneSlice(g.Structures)
	c.Resources = cloneSlice(g.Resources)
	c.ResourceCollect = cloneSlice(g.ResourceCollect)
	c.ResourceUpkeep = cloneSlice(g.ResourceUpkeep)
	c.Points = cloneSlice(g.Points)
	c.MissionAnswers = cloneSlice(g.MissionAnswers)
	c.MissionViewed = cloneSlice(g.MissionViewed)

	if g.Missions != nil {
		c.Missions = make([][]Mission, len(g.Missions))
		for r, list := range g.Missions {
			c.Missions[r] = cloneSlice(list)
			for i := range c.Missions[r] {
				m := &c.Missions[r][i]
				m.Resolution.BlockedBy = cloneInt(m.Resolution.BlockedBy)
			}
		}
	}

	c.Board = g.Board.clone()
	return &c
}

func (b Board) clone() Board {
	c := Board{
		Planets: make([]Planet, len(b.Planets)),
		Fleets:  make([]Fleet, len(b.Fleets)),
		Agents:  make([]Agent, len(b.Agents)),
	}
	for i, p := range b.Planets {
		c.Planets[i] = p.clone()
	}
	for i, f := range b.Fleets {
		f.Planet = cloneInt(f.Planet)
		c.Fleets[i] = f
	}
	for i, a := range b.Agents {
		a.Planet = cloneInt(a.Planet)
		a.MissionRound = cloneInt(a.MissionRound)
		c.Agents[i] = a
	}
	return c
}

func (p Planet) clone() Planet {
	c := p
	c.Resources = cloneSlice(p.Resources)
	for i := range c.Resources {
		c.Resources[i].Structure = cloneStructure(c.Resources[i].Structure)
	}
	c.Base = cloneStructure(p.Base)
	c.Fleets = cloneSlice(p.Fleets)
	c.Agents = cloneSlice(p.Agents)
	c.SettledBy = cloneSlice(p.SettledBy)
	c.BuildableBy = cloneSlice(p.BuildableBy)
	if p.Borders != nil {
		c.Borders = make(map[int]Border, len(p.Borders))
		for id, b := range p.Borders {
			c.Borders[id] = b
		}
	}
	return c
}

func cloneStructure(s *Structure) *Structure {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// cloneSlice copies s, keeping nil and empty slices distinct so the copy
// encodes identically.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	c := make([]T, len(s))
	copy(c, s)
	return c
}

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}
