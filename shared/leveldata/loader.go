package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// DefaultPixelsPerMeter applies when the map has no tile size.
const DefaultPixelsPerMeter = 32

// Object group names
const (
	GroupNavMesh     = "NavMesh"
	GroupDesks       = "Desks"
	GroupColliders   = "Colliders"
	GroupSnapObjects = "SnapObjects"
	GroupWaypoints   = "Waypoints"
	GroupMedia       = "Media"
)

// LoadRoom parses a TMX file into room data. It takes an fs.FS so callers
// can pass embed.FS (client) or os.DirFS (tools).
func LoadRoom(fsys fs.FS, tmxPath string) (*RoomData, error) {
	roomMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	// One tile is one meter
	ppm := float64(roomMap.TileWidth)
	if ppm <= 0 {
		ppm = DefaultPixelsPerMeter
	}
	m := func(px float64) float64 { return px / ppm }

	data := &RoomData{
		Name:           strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		PixelsPerMeter: ppm,
		Width:          m(float64(roomMap.Width * roomMap.TileWidth)),
		Depth:          m(float64(roomMap.Height * roomMap.TileHeight)),
	}

	for _, og := range roomMap.ObjectGroups {
		for _, o := range og.Objects {
			switch og.Name {
			case GroupNavMesh:
				data.NavRects = append(data.NavRects, NavRect{
					MinX:      m(o.X),
					MinZ:      m(o.Y),
					MaxX:      m(o.X + o.Width),
					MaxZ:      m(o.Y + o.Height),
					Elevation: o.Properties.GetFloat("elevation"),
				})

			case GroupDesks:
				objectType := o.Class
				if objectType == "" {
					objectType = o.Type
				}
				data.Desks = append(data.Desks, DeskSpawn{
					Name:       o.Name,
					ObjectType: objectType,
					X:          m(o.X + o.Width/2),
					Z:          m(o.Y + o.Height/2),
					W:          m(o.Width),
					D:          m(o.Height),
					Height:     o.Properties.GetFloat("height"),
					Proxy:      o.Properties.GetString("proxy"),
				})

			case GroupColliders:
				data.Colliders = append(data.Colliders, ColliderSpawn{
					Name:      o.Name,
					X:         m(o.X + o.Width/2),
					Z:         m(o.Y + o.Height/2),
					W:         m(o.Width),
					D:         m(o.Height),
					Height:    o.Properties.GetFloat("height"),
					Invisible: !o.Properties.GetBool("visible"),
				})

			case GroupSnapObjects:
				data.SnapObjects = append(data.SnapObjects, SnapObjectSpawn{
					Name:   o.Name,
					X:      m(o.X + o.Width/2),
					Z:      m(o.Y + o.Height/2),
					W:      m(o.Width),
					D:      m(o.Height),
					Height: o.Properties.GetFloat("height"),
				})

			case GroupWaypoints:
				data.Waypoints = append(data.Waypoints, WaypointSpawn{
					Name:                           o.Name,
					X:                              m(o.X),
					Y:                              o.Properties.GetFloat("elevation"),
					Z:                              m(o.Y),
					YawDegrees:                     o.Properties.GetFloat("yaw"),
					IsSpawn:                        o.Class == "spawn" || o.Type == "spawn",
					IsInstant:                      o.Properties.GetBool("isInstant"),
					SnapToNavMesh:                  o.Properties.GetBool("snapToNavMesh"),
					WillDisableMotion:              o.Properties.GetBool("willDisableMotion"),
					WillDisableTeleporting:         o.Properties.GetBool("willDisableTeleporting"),
					WillMaintainInitialOrientation: o.Properties.GetBool("willMaintainInitialOrientation"),
				})

			case GroupMedia:
				data.Media = append(data.Media, MediaSpawn{
					Name:    o.Name,
					URL:     o.Properties.GetString("url"),
					X:       m(o.X + o.Width/2),
					Y:       o.Properties.GetFloat("elevation"),
					Z:       m(o.Y + o.Height/2),
					IsPres:  o.Properties.GetBool("isPres"),
					Creator: o.Properties.GetString("creator"),
				})
			}
		}
	}

	if len(data.NavRects) == 0 {
		return nil, fmt.Errorf("room %s: no %s objects", tmxPath, GroupNavMesh)
	}

	// Spawns first, then by name, for a stable waypoint order
	sort.SliceStable(data.Waypoints, func(i, j int) bool {
		if data.Waypoints[i].IsSpawn != data.Waypoints[j].IsSpawn {
			return data.Waypoints[i].IsSpawn
		}
		return data.Waypoints[i].Name < data.Waypoints[j].Name
	})

	return data, nil
}

// ListRooms returns the sorted stem names of all .tmx files in dir.
func ListRooms(fsys fs.FS, dir string) ([]string, error) {
	pattern := dir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .tmx files found in %s", dir)
	}
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(path), ".tmx"))
	}
	sort.Strings(names)
	return names, nil
}
