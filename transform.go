package tilebatch

// toClipX maps a canvas x coordinate to clip space [-1, 1].
func toClipX(x float64, viewW int) float32 {
	return float32(x/float64(viewW)*2 - 1)
}

// toClipY maps a canvas y coordinate to clip space. Canvas y grows downward,
// clip y grows upward.
func toClipY(y float64, viewH int) float32 {
	return float32(-y/float64(viewH)*2 + 1)
}

// quadGeometry is everything needed to emit one sprite's six vertices.
type quadGeometry struct {
	viewW, viewH   int
	atlasW, atlasH int
	offset         Vec2 // batch offset plus world offset
}

// writeQuad fills the position, texcoord and tint blocks of one sprite. The
// slices must be exactly positionStride, texcoordStride and tintStride long.
//
// Vertex order is (L,B) (R,B) (L,T) then (R,B) (R,T) (L,T).
func (g quadGeometry) writeQuad(pos, uv, tint []float32, s *Sprite) {
	wx := s.Dst.X + g.offset.X
	wy := s.Dst.Y + g.offset.Y

	l := toClipX(wx, g.viewW)
	r := toClipX(wx+s.Dst.Width, g.viewW)
	t := toClipY(wy, g.viewH)
	b := toClipY(wy+s.Dst.Height, g.viewH)

	u0 := texCoord(s.Src.X, g.atlasW)
	u1 := texCoord(s.Src.X+s.Src.Width, g.atlasW)
	v0 := texCoord(s.Src.Y, g.atlasH)
	v1 := texCoord(s.Src.Y+s.Src.Height, g.atlasH)

	_ = pos[positionStride-1]
	pos[0], pos[1] = l, b
	pos[2], pos[3] = r, b
	pos[4], pos[5] = l, t
	pos[6], pos[7] = r, b
	pos[8], pos[9] = r, t
	pos[10], pos[11] = l, t

	_ = uv[texcoordStride-1]
	uv[0], uv[1] = u0, v1
	uv[2], uv[3] = u1, v1
	uv[4], uv[5] = u0, v0
	uv[6], uv[7] = u1, v1
	uv[8], uv[9] = u1, v0
	uv[10], uv[11] = u0, v0

	_ = tint[tintStride-1]
	for v := 0; v < verticesPerSprite; v++ {
		tint[v*4] = s.Tint.R
		tint[v*4+1] = s.Tint.G
		tint[v*4+2] = s.Tint.B
		tint[v*4+3] = s.Tint.Weight
	}
}
