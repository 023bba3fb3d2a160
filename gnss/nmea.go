package gnss

import (
	"fmt"
	"math/rand"
	"strings"
)

// checksum XOR-folds every byte of the sentence body (the text between '$'
// and '*').
func checksum(body string) byte {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return cs
}

// formatSentence renders a complete NMEA sentence with checksum and CRLF.
// When corrupt is set the checksum is deliberately off by one, so a
// consumer's validator rejects exactly this sentence.
func formatSentence(body string, corrupt bool) string {
	cs := checksum(body)
	if corrupt {
		cs++
	}
	return fmt.Sprintf("$%s*%02X\r\n", body, cs)
}

// generateGGA builds the position/fix sentence body. The fix-quality field
// is 0 while signal loss is simulated, 1 otherwise; satellite count, DOP,
// altitude and geoid separation are fixed constants.
func (s *Simulator) generateGGA() string {
	quality := 1
	if s.signalLoss {
		quality = 0
	}
	return fmt.Sprintf("GNGGA,%02d%02d%02d,%02d%02d.%04d,%c,%03d%02d.%04d,%c,%d,08,0.9,545.4,M,46.9,M,,",
		s.clock.hour, s.clock.minute, s.clock.second,
		s.lat.deg, s.lat.minInt, s.lat.minFrac, s.lat.hemisphere('S', 'N'),
		s.lon.deg, s.lon.minInt, s.lon.minFrac, s.lon.hemisphere('W', 'E'),
		quality)
}

// generateRMC builds the recommended-minimum sentence body with dummy
// speed, course and date. Status is V while signal loss is simulated.
func (s *Simulator) generateRMC() string {
	status := byte('A')
	if s.signalLoss {
		status = 'V'
	}
	return fmt.Sprintf("GNRMC,%02d%02d%02d,%c,%02d%02d.%04d,%c,%03d%02d.%04d,%c,0.5,0.0,100226,,,A",
		s.clock.hour, s.clock.minute, s.clock.second, status,
		s.lat.deg, s.lat.minInt, s.lat.minFrac, s.lat.hemisphere('S', 'N'),
		s.lon.deg, s.lon.minInt, s.lon.minFrac, s.lon.hemisphere('W', 'E'))
}

// generateGSA builds the satellite-geometry sentence body: automatic mode,
// a fixed list of six active PRNs and fixed DOP values. The fix type drops
// to 1 (no fix) while signal loss is simulated.
func (s *Simulator) generateGSA() string {
	fix := 3
	if s.signalLoss {
		fix = 1
	}
	return fmt.Sprintf("GNGSA,A,%d,01,03,06,12,17,28,,,,,,,1.5,1.0,1.2", fix)
}

// generateGSV builds the two satellites-in-view sentence bodies covering
// four satellites each. PRN, elevation and azimuth come straight from the
// constellation table; SNR gets a 0-4 dB jitter, and is forced to zero
// while signal loss is simulated.
func (s *Simulator) generateGSV() []string {
	bodies := make([]string, 0, 2)
	for msg := 0; msg < 2; msg++ {
		var b strings.Builder
		fmt.Fprintf(&b, "GNGSV,2,%d,08", msg+1)
		for _, sat := range constellation[msg*4 : msg*4+4] {
			snr := sat.baseSNR + rand.Intn(5)
			if s.signalLoss {
				snr = 0
			}
			fmt.Fprintf(&b, ",%02d,%02d,%03d,%02d", sat.prn, sat.elev, sat.az, snr)
		}
		bodies = append(bodies, b.String())
	}
	return bodies
}

// renderSentences produces one tick's worth of wire-ready sentences in
// emission order: GGA, RMC, GSA, GSV x2. Each sentence draws its own
// corruption chance against the configured error rate. Caller must hold
// s.mu.
func (s *Simulator) renderSentences() []string {
	bodies := []string{s.generateGGA(), s.generateRMC(), s.generateGSA()}
	bodies = append(bodies, s.generateGSV()...)

	sentences := make([]string, len(bodies))
	for i, body := range bodies {
		sentences[i] = formatSentence(body, rand.Intn(100) < s.errorRate)
	}
	return sentences
}
