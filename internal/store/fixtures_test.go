package store

import (
	"time"

	"github.com/jpdehyl/BSA-demo/internal/model"
)

func sampleRecord(id, company string, score int, priority model.PriorityLevel, created time.Time) *model.CompositeResearchRecord {
	return &model.CompositeResearchRecord{
		ID: id,
		Subject: model.Subject{
			ContactName: "Dana Smith",
			CompanyName: company,
		},
		Dossier:   model.Succeeded(model.Dossier{FitScore: score, OpeningLine: "Hi Dana"}, false, 1200*time.Millisecond),
		Activity:  model.Unavailable[model.SocialActivity]("configuration error: xai.key is not configured"),
		Score:     model.ScoreSummary{Base: score, Final: score, Priority: priority},
		Packet:    model.ResearchPacket{TalkTrack: "Opening Line:\nHi Dana"},
		CreatedAt: created,
	}
}
