package service

import (
	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/pkg/workspace"
)

func toModuleResponse(m entity.Module) dto.ModuleResponse {
	return dto.ModuleResponse{
		Id:          m.Id,
		Name:        m.Name,
		Description: m.Description,
		Subject:     m.Subject,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toTopicResponse(t entity.Topic) dto.TopicResponse {
	keyPoints := t.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	return dto.TopicResponse{
		Id:               t.Id,
		Name:             t.Name,
		Description:      t.Description,
		Subject:          t.Subject,
		ModuleId:         t.ModuleId,
		Explanation:      t.Explanation,
		RealWorldExample: t.RealWorldExample,
		Equation:         t.Equation,
		KeyPoints:        keyPoints,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toModuleResponses(modules []entity.Module) []dto.ModuleResponse {
	res := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		res = append(res, toModuleResponse(m))
	}
	return res
}

func toTopicResponses(topics []entity.Topic) []dto.TopicResponse {
	res := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		res = append(res, toTopicResponse(t))
	}
	return res
}

func toOverlayResponse(o workspace.Overlay) dto.OverlayResponse {
	res := dto.OverlayResponse{Kind: string(o.Kind), DialogKind: string(o.DialogKind)}
	if o.Topic != nil {
		t := toTopicResponse(*o.Topic)
		res.Topic = &t
	}
	if o.Module != nil {
		m := toModuleResponse(*o.Module)
		res.Module = &m
	}
	if o.Draft != nil {
		res.Draft = &dto.DraftResponse{
			SourceId:         o.Draft.SourceId,
			Name:             o.Draft.Name,
			Description:      o.Draft.Description,
			Explanation:      o.Draft.Explanation,
			RealWorldExample: o.Draft.RealWorldExample,
			Equation:         o.Draft.Equation,
			KeyPoints:        o.Draft.KeyPoints,
		}
	}
	return res
}

func toWorkspaceResponse(v workspace.View) dto.WorkspaceResponse {
	res := dto.WorkspaceResponse{
		Selection: dto.SelectionResponse{Subject: v.Selection.Subject},
		Overlay:   toOverlayResponse(v.Overlay),
		Quiz:      v.Quiz,
		Modules:   toModuleResponses(v.Modules),
		Topics:    toTopicResponses(v.Topics),
	}
	if v.Selection.Module != nil {
		m := toModuleResponse(*v.Selection.Module)
		res.Selection.Module = &m
	}
	if v.Selection.Topic != nil {
		t := toTopicResponse(*v.Selection.Topic)
		res.Selection.Topic = &t
	}
	return res
}

func toDraftPatch(req *dto.DraftRequest) workspace.DraftPatch {
	return workspace.DraftPatch{
		Name:             req.Name,
		Description:      req.Description,
		Explanation:      req.Explanation,
		RealWorldExample: req.RealWorldExample,
		Equation:         req.Equation,
		KeyPoints:        req.KeyPoints,
	}
}
