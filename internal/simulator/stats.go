package simulator

// Stats holds the simulator's running metrics, read by the reporting
// layer and by tests asserting the conservation invariant.
type Stats struct {
	Injected           int
	DestroyedByArrival int
	DestroyedByEdge    int
	TotalDelay         int
	TotalDistance      int
	ArbiterWins        int
}

// LiveAtEnd is the number of packets still in flight, not yet destroyed.
// Combined with Injected/DestroyedByArrival/DestroyedByEdge it should
// satisfy the conservation invariant: Injected == DestroyedByArrival +
// DestroyedByEdge + LiveAtEnd.
func (s *Simulator) LiveAtEnd() int {
	return len(s.live)
}

// Destroyed returns the total number of packets destroyed so far, by
// either arrival or edge loss.
func (s Stats) Destroyed() int {
	return s.DestroyedByArrival + s.DestroyedByEdge
}
