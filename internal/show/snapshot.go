package show

import "sort"

// Snapshot is one run's complete scraped dataset, ready to replace the store contents
type Snapshot struct {
	Shows          []*Show
	Venues         []*Venue
	ContentRatings []*ContentRating
	ShowTimes      []*ShowTime
}

// ShowIDs returns the set of show IDs in the snapshot.
func (s *Snapshot) ShowIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(s.Shows))
	for _, sh := range s.Shows {
		ids[sh.ID] = struct{}{}
	}
	return ids
}

// OrphanShowTimes splits ShowTimes into those whose show is in the snapshot and the
// orphans whose detail page was never scraped.
func (s *Snapshot) OrphanShowTimes() (kept []*ShowTime, orphans []*ShowTime) {
	ids := s.ShowIDs()
	kept = make([]*ShowTime, 0, len(s.ShowTimes))
	for _, st := range s.ShowTimes {
		if _, ok := ids[st.ShowID]; ok {
			kept = append(kept, st)
		} else {
			orphans = append(orphans, st)
		}
	}
	return kept, orphans
}

// SortShowTimes orders performances by show then start time for stable inserts.
func SortShowTimes(times []*ShowTime) {
	sort.SliceStable(times, func(i, j int) bool {
		if times[i].ShowID != times[j].ShowID {
			return times[i].ShowID < times[j].ShowID
		}
		return times[i].DateTime.Before(times[j].DateTime)
	})
}
