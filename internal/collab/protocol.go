package collab

import (
	"encoding/json"

	"github.com/lineahq/linea/backend-go/internal/engine"
)

// Message is the websocket envelope. Payload decodes per Type.
type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

// DocSyncPayload carries the full document a client starts from; every
// later change arrives as a broadcast operation on top of it.
type DocSyncPayload struct {
	Document  json.RawMessage `json:"document"`
	ServerSeq int64           `json:"serverSeq"`
}

// PresencePayload is what peers see of each other: the cursor and the
// points currently selected, so two users notice when they grab the
// same anchor.
type PresencePayload struct {
	Cursor      *CursorPos        `json:"cursor,omitempty"`
	Selection   []engine.PointRef `json:"selection,omitempty"`
	DisplayName string            `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

// --- Operations ---

// Operation types. Path operations name their targets by element ID and
// command/point index; applying one is deterministic, so replicas that
// replay the same log converge.
const (
	OpMovePoints       = "path.movePoints"
	OpDeletePoints     = "path.deletePoints"
	OpInsertPoint      = "path.insertPoint"
	OpCutSubPath       = "path.cutSubpath"
	OpConvertCommand   = "path.convertCommand"
	OpSetAlignment     = "path.setAlignment"
	OpDeleteClose      = "path.deleteClose"
	OpCloseToLine      = "path.closeToLine"
	OpSmooth           = "path.smooth"
	OpSimplify         = "path.simplify"
	OpRound            = "path.round"
	OpAlignPoints      = "path.alignPoints"
	OpDistributePoints = "path.distributePoints"

	OpElementCreate = "element.create"
	OpElementDelete = "element.delete"
	OpElementStyle  = "element.style"
	OpElementRename = "element.rename"

	OpProjectRename = "project.rename"
)

// Operation is one document mutation. It is a flat union: Type decides
// which fields are meaningful.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	ElementID string `json:"elementId,omitempty"`

	// path.movePoints, path.deletePoints, path.alignPoints,
	// path.distributePoints, and selection-mode path.smooth
	Points []engine.PointRef `json:"points,omitempty"`
	DX     float64           `json:"dx,omitempty"`
	DY     float64           `json:"dy,omitempty"`

	// path.insertPoint, path.cutSubpath, path.convertCommand,
	// path.deleteClose, path.closeToLine, path.setAlignment
	CommandIndex     int     `json:"commandIndex,omitempty"`
	PointIndex       int     `json:"pointIndex,omitempty"`
	T                float64 `json:"t,omitempty"`
	TargetKind       string  `json:"targetKind,omitempty"`
	PairCommandIndex int     `json:"pairCommandIndex,omitempty"`
	PairPointIndex   int     `json:"pairPointIndex,omitempty"`
	AlignKind        string  `json:"alignKind,omitempty"`

	// path.smooth, path.simplify, path.round
	Brush          *BrushParams `json:"brush,omitempty"`
	Tolerance      float64      `json:"tolerance,omitempty"`
	Radius         float64      `json:"radius,omitempty"`
	SubPathIndexes []int        `json:"subPathIndexes,omitempty"`

	// path.alignPoints / path.distributePoints
	Strategy string `json:"strategy,omitempty"`
	Axis     string `json:"axis,omitempty"`

	// element.create
	Element json.RawMessage `json:"element,omitempty"`

	// element.style
	Style json.RawMessage `json:"style,omitempty"`

	// element.rename / project.rename
	Name string `json:"name,omitempty"`
}

// BrushParams is the wire form of a smoothing brush. A nil Center means
// the stroke applies to the operation's Points instead.
type BrushParams struct {
	Center      *CursorPos `json:"center,omitempty"`
	Radius      float64    `json:"radius,omitempty"`
	Strength    float64    `json:"strength,omitempty"`
	Simplify    bool       `json:"simplify,omitempty"`
	Tolerance   float64    `json:"tolerance,omitempty"`
	MinDistance float64    `json:"minDistance,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}
