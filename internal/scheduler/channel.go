package scheduler

import "github.com/xisxz/agente-vendas/internal/model"

// DefaultChannel is the last-resort delivery channel when a lead has no
// inbound history and no usable acquisition source.
const DefaultChannel = "whatsapp"

// IdealChannel picks the delivery channel for a lead: the channel the
// lead writes in most, falling back to the acquisition source, falling
// back to the default. counts must be ordered most-used first.
func IdealChannel(counts []model.ChannelCount, source string) string {
	if len(counts) > 0 && counts[0].Channel != "" {
		return counts[0].Channel
	}
	if source != "" {
		return source
	}
	return DefaultChannel
}
