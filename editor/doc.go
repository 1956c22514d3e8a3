//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package editor implements the map editing functions of fortplan.
// Many of these functions are accessed only through operations; this
// makes it possible to easily repeat them.
// An editor manages a collection of levels. Each level is shown by a pair
// of raster controllers, and the active level is also shown by a table
// controller that receives selections and brush placement.
package editor
