package domain

import "testing"

func TestTitleQuery(t *testing.T) {
	tests := []struct {
		name     string
		itemType string
		title    string
		want     string
	}{
		{
			name:     "plain",
			itemType: "Epic",
			title:    "Checkout",
			want:     "SELECT [System.Id] FROM WorkItems WHERE [System.WorkItemType] = 'Epic' AND [System.Title] = 'Checkout'",
		},
		{
			name:     "quotes doubled",
			itemType: "Product Backlog Item",
			title:    "Bob's 'card' form",
			want:     "SELECT [System.Id] FROM WorkItems WHERE [System.WorkItemType] = 'Product Backlog Item' AND [System.Title] = 'Bob''s ''card'' form'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleQuery(tt.itemType, tt.title); got != tt.want {
				t.Errorf("TitleQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
