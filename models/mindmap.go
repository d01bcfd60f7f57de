package models

// MindMapNode is a labeled concept in the knowledge graph.
type MindMapNode struct {
	ID    string `json:"id"`
	Group int    `json:"group"`
	Label string `json:"label"`
}

// MindMapLink connects two nodes by their IDs.
type MindMapLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// MindMapData represents a knowledge graph generated for a card set
type MindMapData struct {
	Nodes []MindMapNode `json:"nodes"`
	Links []MindMapLink `json:"links"`
}
