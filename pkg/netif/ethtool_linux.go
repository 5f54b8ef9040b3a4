//go:build linux

package netif

import (
	"sync"

	"github.com/safchain/ethtool"
	"github.com/sirupsen/logrus"

	"example.com/ifshow/pkg"
	"example.com/ifshow/pkg/types"
)

// ethtoolClient shares one ethtool socket between all queries. The
// handle is created on first use; a failed creation is not retried.
type ethtoolClient struct {
	once   sync.Once
	handle *ethtool.Ethtool
}

func (c *ethtoolClient) get() *ethtool.Ethtool {
	c.once.Do(func() {
		h, err := ethtool.NewEthtool()
		if err != nil {
			pkg.WithError(err).Debug("failed to create ethtool handle")
			return
		}
		c.handle = h
	})
	return c.handle
}

// Info collects features, rings and channels. ok is false when none of
// them could be read.
func (c *ethtoolClient) Info(ifname string) (types.EthtoolInfo, bool) {
	h := c.get()
	if h == nil {
		return types.EthtoolInfo{}, false
	}

	var info types.EthtoolInfo
	got := false
	log := pkg.ForInterface(ifname)

	if features, err := h.Features(ifname); err == nil {
		info.Features = features
		got = true
	} else {
		log.WithError(err).Debug("failed to get features")
	}

	if ring, err := h.GetRing(ifname); err == nil {
		info.Ring = types.EthtoolRing{
			RxMaxPending:      ring.RxMaxPending,
			RxMiniMaxPending:  ring.RxMiniMaxPending,
			RxJumboMaxPending: ring.RxJumboMaxPending,
			TxMaxPending:      ring.TxMaxPending,
			RxPending:         ring.RxPending,
			RxMiniPending:     ring.RxMiniPending,
			RxJumboPending:    ring.RxJumboPending,
			TxPending:         ring.TxPending,
		}
		got = true
	} else {
		log.WithError(err).Debug("failed to get ring parameters")
	}

	if ch, err := h.GetChannels(ifname); err == nil {
		info.Channels = types.EthtoolChannels{
			MaxRx:         ch.MaxRx,
			MaxTx:         ch.MaxTx,
			MaxOther:      ch.MaxOther,
			MaxCombined:   ch.MaxCombined,
			RxCount:       ch.RxCount,
			TxCount:       ch.TxCount,
			OtherCount:    ch.OtherCount,
			CombinedCount: ch.CombinedCount,
		}
		got = true
	} else {
		log.WithError(err).Debug("failed to get channel parameters")
	}

	if got {
		log.WithFields(logrus.Fields{
			"features": len(info.Features),
			"rx_ring":  info.Ring.RxPending,
			"combined": info.Channels.CombinedCount,
		}).Debug("ethtool data retrieved")
	}
	return info, got
}

// Close releases the shared socket.
func (c *ethtoolClient) Close() {
	if c.handle != nil {
		c.handle.Close()
	}
}
