// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"os"

	"github.com/elastic/gosigar"
	"github.com/prometheus/client_golang/prometheus"
)

// memCollector exports the memory of the process and of the host.
type memCollector struct {
	pid          int
	residentDesc *prometheus.Desc
	hostFreeDesc *prometheus.Desc
}

func newMemCollector() *memCollector {
	return &memCollector{
		pid: os.Getpid(),
		residentDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "memory", "resident_bytes"),
			"Resident memory of the process.",
			nil, nil,
		),
		hostFreeDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "memory", "host_free_bytes"),
			"Actual free memory of the host.",
			nil, nil,
		),
	}
}

func (c *memCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.residentDesc
	ch <- c.hostFreeDesc
}

func (c *memCollector) Collect(ch chan<- prometheus.Metric) {
	var procMem gosigar.ProcMem
	if err := procMem.Get(c.pid); err == nil {
		ch <- prometheus.MustNewConstMetric(c.residentDesc, prometheus.GaugeValue, float64(procMem.Resident))
	}
	var mem gosigar.Mem
	if err := mem.Get(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.hostFreeDesc, prometheus.GaugeValue, float64(mem.ActualFree))
	}
}
