package analysis

import (
	"sort"

	"github.com/odlab/odflow-backend/internal/models"
	"github.com/odlab/odflow-backend/internal/stats"
)

type pairKey struct {
	send, arrive string
}

type cityPairKey struct {
	sendCity, arriveCity string
	sendProv, arriveProv string
}

// ProvinceCorridors sums flow over ordered (send, arrive) province
// pairs and returns the topK ranked corridors. Unresolved provinces
// land in the Unknown bucket.
func ProvinceCorridors(rows []models.JoinedFlowRow, topK int) []models.Corridor {
	sums := make(map[pairKey]float64)
	for _, row := range rows {
		k := pairKey{send: row.OriginProvince, arrive: row.DestinationProvince}
		if k.send == "" {
			k.send = UnknownKey
		}
		if k.arrive == "" {
			k.arrive = UnknownKey
		}
		sums[k] += flowValue(row)
	}

	corridors := rankPairs(sums)
	if topK > 0 && len(corridors) > topK {
		corridors = corridors[:topK]
	}
	return corridors
}

// CityCorridorSet holds the two independently ranked city corridor
// lists. The lists are disjoint: a pair is intra-province when both
// sides resolve to the same non-empty province, inter-province when
// both resolve and differ. Pairs missing province information on
// either side appear in neither list.
type CityCorridorSet struct {
	IntraProvince []models.Corridor
	InterProvince []models.Corridor
}

// CityCorridors sums flow over ordered city pairs and splits the
// result into intra- and inter-province rankings, each truncated to
// its own topK.
func CityCorridors(rows []models.JoinedFlowRow, topKIntra, topKInter int) CityCorridorSet {
	sums := make(map[cityPairKey]float64)
	for _, row := range rows {
		k := cityPairKey{
			sendCity:   row.OriginName,
			arriveCity: row.DestinationName,
			sendProv:   row.OriginProvince,
			arriveProv: row.DestinationProvince,
		}
		if k.sendCity == "" {
			k.sendCity = UnknownKey
		}
		if k.arriveCity == "" {
			k.arriveCity = UnknownKey
		}
		sums[k] += flowValue(row)
	}

	intra := make(map[pairKey]float64)
	inter := make(map[pairKey]float64)
	for k, flow := range sums {
		// pairs with a missing province on either side are excluded
		// from both lists
		if k.sendProv == "" || k.arriveProv == "" {
			continue
		}
		pk := pairKey{send: k.sendCity, arrive: k.arriveCity}
		if k.sendProv == k.arriveProv {
			intra[pk] += flow
		} else {
			inter[pk] += flow
		}
	}

	set := CityCorridorSet{
		IntraProvince: rankPairs(intra),
		InterProvince: rankPairs(inter),
	}
	if topKIntra > 0 && len(set.IntraProvince) > topKIntra {
		set.IntraProvince = set.IntraProvince[:topKIntra]
	}
	if topKInter > 0 && len(set.InterProvince) > topKInter {
		set.InterProvince = set.InterProvince[:topKInter]
	}
	return set
}

func rankPairs(sums map[pairKey]float64) []models.Corridor {
	keys := make([]pairKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if sums[keys[i]] != sums[keys[j]] {
			return sums[keys[i]] > sums[keys[j]]
		}
		if keys[i].send != keys[j].send {
			return keys[i].send < keys[j].send
		}
		return keys[i].arrive < keys[j].arrive
	})

	flows := make([]float64, len(keys))
	for i, k := range keys {
		flows[i] = sums[k]
	}
	ranks := stats.MinRanks(flows)

	corridors := make([]models.Corridor, len(keys))
	for i, k := range keys {
		corridors[i] = models.Corridor{
			SendKey:   k.send,
			ArriveKey: k.arrive,
			Flow:      sums[k],
			Rank:      ranks[i],
		}
	}
	return corridors
}
